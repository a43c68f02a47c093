package constellation

import (
	"context"
	"fmt"
	"sync"

	"github.com/constellation-go/constellation/metrics"
)

type facadeState int

const (
	stateInactive facadeState = iota
	stateActive
	stateShuttingDown
	stateTerminated
)

func (s facadeState) String() string {
	switch s {
	case stateInactive:
		return "inactive"
	case stateActive:
		return "active"
	case stateShuttingDown:
		return "shutting-down"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// DoneResult is the outcome of Constellation.Done: Drained reports
// whether every worker's collections and the coordinator's ingest/waiting
// queues were observed empty at the time of the call. A false result is
// not an error; the caller is expected to call Done again later.
type DoneResult struct {
	Drained bool
}

// Constellation is the top-level handle a user builds, activates, and
// submits activities to.
type Constellation struct {
	cfg             Config
	constellationID string

	logger  *schedulerLogger
	metrics metrics.Recorder
	ident   *identifierGenerator

	mu    sync.Mutex
	state facadeState

	workers      []*workerState
	coordinator  *coordinator
	shutdownSig  chan struct{}
	shutdownOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	coordDone    chan struct{}
	executorDone []chan struct{}

	shutdown *shutdownCoordinator
}

// New builds an inactive Constellation from the given options. Activate
// must be called before Submit, Send, or Done.
func New(opts ...Option) (*Constellation, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Constellation{
		cfg:             cfg,
		constellationID: newConstellationID(),
		state:           stateInactive,
		shutdownSig:     make(chan struct{}),
	}, nil
}

// Activate starts every worker's executor goroutine and the coordinator
// goroutine. Calling Activate a second time is a StateError.
func (c *Constellation) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateInactive {
		return NewSchedulerError(StateError, Identifier{}, fmt.Errorf("Activate called while facade is %s", c.state))
	}

	c.logger = newSchedulerLogger(c.cfg.Logger, c.cfg.Debug)
	c.metrics = c.cfg.Metrics
	c.ident = newIdentifierGenerator(c.constellationID, c.cfg.Transport.NodeID())
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.workers = make([]*workerState, c.cfg.WorkerCount)
	c.executorDone = make([]chan struct{}, c.cfg.WorkerCount)
	for i := range c.workers {
		c.workers[i] = newWorkerState(i)
		c.executorDone[i] = make(chan struct{})
	}

	c.coordinator = newCoordinator(&c.cfg, c.ident, c.logger, c.metrics, c.workers)
	c.coordDone = make(chan struct{})

	for i, w := range c.workers {
		handle := &workerHandle{coord: c.coordinator, state: w}
		ex := newExecutor(w, handle, c.cfg.PollInterval, c.logger, c.metrics)
		go func(i int, ex *executor) {
			defer close(c.executorDone[i])
			ex.run(c.ctx, c.shutdownSig)
		}(i, ex)
	}

	go func() {
		defer close(c.coordDone)
		c.coordinator.run(c.ctx)
	}()

	workerDone := make([]<-chan struct{}, len(c.executorDone))
	for i, d := range c.executorDone {
		workerDone[i] = d
	}
	c.shutdown = newShutdownCoordinator(c.cancel, c.coordDone, workerDone, func() {
		c.mu.Lock()
		c.state = stateTerminated
		c.mu.Unlock()
		c.logger.terminated()
	})

	// flipped last, so a concurrent Submit either sees the facade still
	// inactive or a fully constructed coordinator, never half of each.
	c.state = stateActive
	return nil
}

// Submit schedules activity under runContext for execution, returning
// its Identifier. mayBeStolen is recorded on the activity but not consulted
// by placement. expectsEvents decides what a Finish from Initialize means:
// an activity expecting events goes on to Process with its first event
// (suspending until one is queued), one not expecting events is cleaned up.
// A Suspend from Initialize always suspends the activity.
func (c *Constellation) Submit(activity Activity, runContext string, mayBeStolen, expectsEvents bool) (Identifier, error) {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()
	switch st {
	case stateActive:
	case stateShuttingDown:
		return Identifier{}, NewSchedulerError(ShutdownPending, Identifier{}, fmt.Errorf("Submit called after Done was requested"))
	default:
		return Identifier{}, NewSchedulerError(StateError, Identifier{}, fmt.Errorf("Submit called while facade is %s", st))
	}
	if !c.contextAllowed(runContext) {
		return Identifier{}, NewSchedulerError(StateError, Identifier{}, fmt.Errorf("%w: %q", ErrUnknownContext, runContext))
	}
	return c.coordinator.submit(activity, runContext, mayBeStolen, expectsEvents)
}

// Send delivers event to its Destination's next Process call. Sending is
// still permitted while shutdown is pending, so in-flight activities can
// finish exchanging events with one another.
func (c *Constellation) Send(event Event) error {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()
	if st != stateActive && st != stateShuttingDown {
		return NewSchedulerError(StateError, Identifier{}, fmt.Errorf("Send called while facade is %s", st))
	}
	return c.coordinator.send(event)
}

// Identifier returns this node's own identity, as an Identifier with
// Sequence 0.
func (c *Constellation) Identifier() Identifier {
	return Identifier{ConstellationID: c.constellationID, NodeID: c.cfg.Transport.NodeID()}
}

// Nodes returns the constellation's configured node count.
func (c *Constellation) Nodes() int { return c.cfg.Transport.NodeCount() }

// IsMaster reports whether this node is the master node.
func (c *Constellation) IsMaster() bool { return c.cfg.Transport.IsMaster() }

// Done requests shutdown on first call and reports whether every
// worker's collections and the coordinator's queues have drained. A
// false DoneResult is not an error: the caller should call Done again
// after giving outstanding activities more time to finish.
func (c *Constellation) Done() (DoneResult, error) {
	c.mu.Lock()
	st := c.state
	if st == stateActive {
		c.state = stateShuttingDown
		st = stateShuttingDown
	}
	c.mu.Unlock()

	switch st {
	case stateInactive:
		return DoneResult{}, NewSchedulerError(StateError, Identifier{}, fmt.Errorf("Done called before Activate"))
	case stateTerminated:
		return DoneResult{Drained: true}, nil
	}

	// executors are only signalled once everything is drained: an executor
	// that saw the signal while its own collections were still empty would
	// exit before the coordinator hands it a just-submitted activity.
	if !c.allDrained() {
		return DoneResult{Drained: false}, nil
	}

	c.shutdownOnce.Do(func() {
		close(c.shutdownSig)
		c.logger.shutdownRequested()
	})

	c.shutdown.finish()
	return DoneResult{Drained: true}, nil
}

func (c *Constellation) allDrained() bool {
	for _, w := range c.workers {
		if !w.isEmpty() {
			return false
		}
	}
	return c.coordinator.idle()
}

func (c *Constellation) contextAllowed(runContext string) bool {
	if len(c.cfg.Contexts) == 0 {
		return true
	}
	_, ok := c.cfg.Contexts[runContext]
	return ok
}
