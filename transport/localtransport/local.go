// Package localtransport implements transport.Transport for a
// single-node constellation: node 0, always master. Without a real
// distributed transport there is no election to run, so node 0 wins by
// definition.
package localtransport

import "github.com/constellation-go/constellation/transport"

type local struct {
	nodeCount int
}

// New constructs a single-node transport.Transport reporting nodeCount as
// the cluster size (nodeCount < 1 is treated as 1).
func New(nodeCount int) transport.Transport {
	if nodeCount < 1 {
		nodeCount = 1
	}
	return &local{nodeCount: nodeCount}
}

func (l *local) NodeID() uint32 { return 0 }
func (l *local) NodeCount() int { return l.nodeCount }
func (l *local) IsMaster() bool { return true }
