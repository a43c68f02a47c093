package constellation

import (
	"context"
	"fmt"
	"time"

	"github.com/constellation-go/constellation/metrics"
)

// executor drives one worker's single-threaded, cooperative lifecycle
// loop: on each turn it prefers a
// suspended activity whose awaited event has arrived, falls back to an
// unstarted runnable activity, and otherwise idles until either new work
// appears or shutdown is requested and the worker has drained.
//
// Deliberately, no call here recovers a panic raised by user Activity
// code: an activity panic is always a bug and must terminate the
// process, not be absorbed into an error value.
type executor struct {
	state   *workerState
	handle  Handle
	poll    time.Duration
	logger  *schedulerLogger
	metrics metrics.Recorder
}

func newExecutor(state *workerState, handle Handle, poll time.Duration, logger *schedulerLogger, rec metrics.Recorder) *executor {
	return &executor{state: state, handle: handle, poll: poll, logger: logger, metrics: rec}
}

func (ex *executor) run(ctx context.Context, shutdownRequested <-chan struct{}) {
	shuttingDown := false

	for {
		if ex.stepSuspended() {
			continue
		}
		if ex.stepRunnable() {
			continue
		}

		if shuttingDown {
			if ex.state.isEmpty() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(ex.poll):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-shutdownRequested:
			shuttingDown = true
		case <-time.After(ex.poll):
		}
	}
}

// stepSuspended looks for a suspended activity whose destination event
// has arrived and reactivates it. It returns true if it made progress.
func (ex *executor) stepSuspended() bool {
	ex.state.suspendedMu.Lock()
	ids := make([]Identifier, 0, len(ex.state.suspended))
	for id := range ex.state.suspended {
		ids = append(ids, id)
	}
	ex.state.suspendedMu.Unlock()

	for _, id := range ids {
		event, ok := ex.state.events.pop(id)
		if !ok {
			continue
		}

		ex.state.suspendedMu.Lock()
		rec, stillSuspended := ex.state.suspended[id]
		if stillSuspended {
			ex.state.inFlight.Store(true)
			delete(ex.state.suspended, id)
		}
		ex.state.suspendedMu.Unlock()

		if !stillSuspended {
			// shouldn't happen under this executor's single-threaded
			// discipline; re-queue rather than drop the event.
			ex.logger.internalFault(fmt.Errorf("suspended record %s vanished between event pop and reactivation", id))
			ex.state.events.push(id, event)
			continue
		}

		ex.runProcess(rec, event)
		ex.state.inFlight.Store(false)
		return true
	}
	return false
}

// stepRunnable picks an arbitrary unstarted activity and initializes it.
func (ex *executor) stepRunnable() bool {
	ex.state.runnableMu.Lock()
	var id Identifier
	var rec *ActivityRecord
	for candidate, r := range ex.state.runnable {
		id, rec = candidate, r
		break
	}
	if rec != nil {
		ex.state.inFlight.Store(true)
		delete(ex.state.runnable, id)
	}
	ex.state.runnableMu.Unlock()

	if rec == nil {
		return false
	}

	ex.metrics.RunnableDepth(ex.state.index, -1)
	ex.runInitialize(rec)
	ex.state.inFlight.Store(false)
	return true
}

func (ex *executor) runInitialize(rec *ActivityRecord) {
	ex.logger.activityTransition(rec.ID, "initialize")
	state := rec.activity.Initialize(ex.handle, rec.ID)

	switch state {
	case Suspend:
		ex.suspend(rec)
	case Finish:
		ex.finishFresh(rec)
	default:
		panic(fmt.Sprintf("constellation: Initialize returned unknown state %v for %s", state, rec.ID))
	}
}

// finishFresh handles a fresh record whose Initialize reported Finish.
// An activity that expects events is not done yet: it proceeds straight
// to its first Process call if an event is already queued, and parks in
// the suspended map until one arrives otherwise. An activity that does
// not expect events is cleaned up and dropped.
func (ex *executor) finishFresh(rec *ActivityRecord) {
	if !rec.ExpectsEvents {
		ex.cleanup(rec)
		return
	}
	if event, ok := ex.state.events.pop(rec.ID); ok {
		ex.runProcess(rec, event)
		return
	}
	ex.suspend(rec)
}

func (ex *executor) suspend(rec *ActivityRecord) {
	ex.logger.activityTransition(rec.ID, "suspend")
	ex.metrics.ActivitySuspended()
	ex.state.suspendedMu.Lock()
	ex.state.suspended[rec.ID] = rec
	ex.state.suspendedMu.Unlock()
}

func (ex *executor) runProcess(rec *ActivityRecord, event *Event) {
	ex.logger.activityTransition(rec.ID, "process")
	state := rec.activity.Process(ex.handle, event, rec.ID)

	switch state {
	case Suspend:
		ex.suspend(rec)
	case Finish:
		ex.cleanup(rec)
	default:
		panic(fmt.Sprintf("constellation: Process returned unknown state %v for %s", state, rec.ID))
	}
}

func (ex *executor) cleanup(rec *ActivityRecord) {
	ex.logger.activityTransition(rec.ID, "cleanup")
	rec.activity.Cleanup(ex.handle)
	ex.metrics.ActivityFinished()
}
