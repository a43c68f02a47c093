package constellation

import (
	"time"

	"github.com/constellation-go/constellation/metrics"
	"github.com/constellation-go/constellation/transport"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// StealStrategy biases which candidate activity is preferred when more
// than one is available to run. Cross-node stealing itself is out of
// scope for this implementation; the field exists so a future
// distributed Transport has somewhere to read the preference from.
type StealStrategy int

const (
	// StealSmallest prefers the candidate with the least accumulated work.
	StealSmallest StealStrategy = iota
	// StealBiggest prefers the candidate with the most accumulated work.
	StealBiggest
)

func (s StealStrategy) String() string {
	if s == StealBiggest {
		return "biggest"
	}
	return "smallest"
}

// Config holds the settings a Constellation is built from.
type Config struct {
	// WorkerCount is the number of executor goroutines this node runs.
	// Default: 1.
	WorkerCount uint

	// LocalStealStrategy biases which local candidate activity the
	// scheduler prefers. Advisory only: this implementation's
	// least-loaded placement does not currently consult it.
	// Default: StealSmallest.
	LocalStealStrategy StealStrategy

	// RemoteStealStrategy is the equivalent bias for cross-node
	// stealing. Cross-node stealing is out of scope; this field is
	// stored but not validated or consulted.
	// Default: StealSmallest.
	RemoteStealStrategy StealStrategy

	// NodeCount is the declared cluster size, reported via Transport.
	// Default: 1.
	NodeCount uint

	// Contexts is the set of run contexts this node accepts. An empty
	// set accepts every context.
	// Default: empty (accept all).
	Contexts map[string]struct{}

	// PollInterval is the idle wait used by both the coordinator loop
	// and each executor's idle branch.
	// Default: 1ms.
	PollInterval time.Duration

	// Debug enables the activity lifecycle trace call sites and, when
	// Logger is nil, builds the default logger at Trace level instead of
	// Informational. Worker assignment and event routing/parking are logged
	// at Debug level, so the default logger emits them only with Debug set;
	// a supplied Logger keeps its own level.
	// Default: false.
	Debug bool

	// Metrics receives the scheduler's measurements.
	// Default: metrics.NewNoopRecorder().
	Metrics metrics.Recorder

	// Transport supplies node identity.
	// Default: a single-node localtransport.Transport.
	Transport transport.Transport

	// Logger receives structured scheduler trace output.
	// Default: a stumpy-backed logiface logger writing to os.Stderr.
	Logger *logiface.Logger[*stumpy.Event]
}
