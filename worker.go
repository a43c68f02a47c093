package constellation

import (
	"sync"
	"sync/atomic"
)

// Handle is the view of the constellation exposed to a running Activity:
// submit new activities, send events, and introspect node identity. It is
// intentionally narrow: a running Activity never sees the coordinator or
// other workers' collections directly.
type Handle interface {
	// Submit schedules a new activity under runContext, returning its
	// Identifier. mayBeStolen and expectsEvents are advisory/placement
	// hints; see Constellation.Submit.
	Submit(activity Activity, runContext string, mayBeStolen, expectsEvents bool) (Identifier, error)
	// Send delivers event to its Destination's next Process call.
	Send(event Event) error
	// Identifier returns the calling worker's node identity, as an
	// Identifier with Sequence 0.
	Identifier() Identifier
	// Nodes returns the constellation's configured node count.
	Nodes() int
	// IsMaster reports whether the calling worker's node is the master.
	IsMaster() bool
}

// workerState holds one worker's three collections: the runnable map, the
// suspended map, and the event queue. Each collection has exactly one
// guarding mutex; no code here ever holds two of these locks at once, and
// no lock here is ever held while calling into user Activity code.
type workerState struct {
	index int

	runnableMu sync.Mutex
	runnable   map[Identifier]*ActivityRecord

	suspendedMu sync.Mutex
	suspended   map[Identifier]*ActivityRecord

	events *eventQueue

	// inFlight is set by the executor for the duration of a lifecycle
	// step, from before the record leaves its map until after it has been
	// re-placed or cleaned up. Only the executor goroutine writes it.
	inFlight atomic.Bool
}

func newWorkerState(index int) *workerState {
	return &workerState{
		index:     index,
		runnable:  make(map[Identifier]*ActivityRecord),
		suspended: make(map[Identifier]*ActivityRecord),
		events:    newEventQueue(),
	}
}

// load is this worker's current activity count, used by the coordinator's
// least-loaded placement.
func (w *workerState) load() int {
	w.runnableMu.Lock()
	r := len(w.runnable)
	w.runnableMu.Unlock()

	w.suspendedMu.Lock()
	s := len(w.suspended)
	w.suspendedMu.Unlock()

	return r + s
}

func (w *workerState) addRunnable(rec *ActivityRecord) {
	w.runnableMu.Lock()
	w.runnable[rec.ID] = rec
	w.runnableMu.Unlock()
}

// has reports whether id currently resides on this worker, runnable or
// suspended. Used by the coordinator's routing scan.
func (w *workerState) has(id Identifier) bool {
	w.runnableMu.Lock()
	_, inRunnable := w.runnable[id]
	w.runnableMu.Unlock()
	if inRunnable {
		return true
	}

	w.suspendedMu.Lock()
	_, inSuspended := w.suspended[id]
	w.suspendedMu.Unlock()
	return inSuspended
}

// isEmpty reports whether all three collections are empty and no record
// is mid-step on the executor, the condition the shutdown sequence polls
// for. Without the in-flight check, Done could observe a worker as
// drained in the window where a record has left its map but its
// lifecycle call has not yet re-placed it.
func (w *workerState) isEmpty() bool {
	if w.inFlight.Load() {
		return false
	}

	w.runnableMu.Lock()
	r := len(w.runnable)
	w.runnableMu.Unlock()
	if r != 0 {
		return false
	}

	w.suspendedMu.Lock()
	s := len(w.suspended)
	w.suspendedMu.Unlock()
	if s != 0 {
		return false
	}

	return w.events.empty()
}

// workerHandle is the narrow, activity-facing view of a worker's access
// to the wider constellation. It carries a non-owning back reference to
// the coordinator rather than embedding it, which breaks the reference
// cycle between activities, workers, and the coordinator that owns them.
// Activate is deliberately absent from this type; only Constellation
// exposes it.
type workerHandle struct {
	coord *coordinator
	state *workerState
}

func (h *workerHandle) Submit(activity Activity, runContext string, mayBeStolen, expectsEvents bool) (Identifier, error) {
	return h.coord.submit(activity, runContext, mayBeStolen, expectsEvents)
}

// Send delivers event toward its destination. With a single worker every
// destination is local, so the event goes straight into this worker's
// queue. With multiple workers every send is forwarded to the
// coordinator, even when the destination happens to reside on this very
// worker: a local delivery shortcut cannot be made atomic with the
// coordinator's routing without holding a worker lock and a coordinator
// lock together, and taking it only sometimes would let a later send
// overtake an earlier one still in the coordinator's queues.
func (h *workerHandle) Send(event Event) error {
	if h.coord.singleWorker() {
		h.state.events.push(event.Destination, &event)
		return nil
	}
	return h.coord.send(event)
}

func (h *workerHandle) Identifier() Identifier { return h.coord.nodeIdentity() }
func (h *workerHandle) Nodes() int             { return h.coord.nodeCount() }
func (h *workerHandle) IsMaster() bool         { return h.coord.isMaster() }
