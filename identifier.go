package constellation

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Identifier uniquely identifies an activity within a constellation: the
// constellation it was submitted to, the node that assigned it, and a
// per-node monotonic sequence number. Sequence 0 is reserved and never
// assigned to a real activity; it is used by Constellation.Identifier and
// Handle.Identifier to report a node's own identity as the same type.
//
// Identifier is comparable and safe to use as a map key.
type Identifier struct {
	ConstellationID string
	NodeID          uint32
	Sequence        uint64
}

func (id Identifier) String() string {
	return fmt.Sprintf("%s/%d/%d", id.ConstellationID, id.NodeID, id.Sequence)
}

// identifierGenerator draws activity sequence numbers from a single
// atomic counter shared by every worker on a node.
type identifierGenerator struct {
	constellationID string
	nodeID          uint32
	seq             atomic.Uint64
}

func newIdentifierGenerator(constellationID string, nodeID uint32) *identifierGenerator {
	return &identifierGenerator{constellationID: constellationID, nodeID: nodeID}
}

func (g *identifierGenerator) next() Identifier {
	seq := g.seq.Add(1)
	if seq == 0 {
		panic("constellation: activity sequence counter overflowed")
	}
	return Identifier{ConstellationID: g.constellationID, NodeID: g.nodeID, Sequence: seq}
}

func (g *identifierGenerator) nodeIdentity() Identifier {
	return Identifier{ConstellationID: g.constellationID, NodeID: g.nodeID}
}

// newConstellationID returns a fresh random identifier for a constellation
// instance, generated once when a Constellation is constructed.
func newConstellationID() string {
	return uuid.NewString()
}
