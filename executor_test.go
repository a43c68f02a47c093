package constellation

import (
	"context"
	"testing"
	"time"

	"github.com/constellation-go/constellation/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopHandle is a stand-in Handle for executor unit tests that don't
// exercise Submit/Send.
type noopHandle struct{}

func (noopHandle) Submit(Activity, string, bool, bool) (Identifier, error) { return Identifier{}, nil }
func (noopHandle) Send(Event) error                                        { return nil }
func (noopHandle) Identifier() Identifier                                  { return Identifier{} }
func (noopHandle) Nodes() int                                              { return 1 }
func (noopHandle) IsMaster() bool                                          { return true }

// recorderActivity logs the order of lifecycle calls it receives and
// suspends until it has processed wantEvents events, then finishes.
type recorderActivity struct {
	wantEvents int
	calls      []string
	processed  []string
}

func (a *recorderActivity) Initialize(h Handle, id Identifier) State {
	a.calls = append(a.calls, "initialize")
	if a.wantEvents == 0 {
		return Finish
	}
	return Suspend
}

func (a *recorderActivity) Process(h Handle, e *Event, id Identifier) State {
	a.calls = append(a.calls, "process")
	a.processed = append(a.processed, string(e.Payload.(stringPayload)))
	if len(a.processed) >= a.wantEvents {
		return Finish
	}
	return Suspend
}

func (a *recorderActivity) Cleanup(h Handle) {
	a.calls = append(a.calls, "cleanup")
}

func newTestExecutor(state *workerState) *executor {
	return newExecutor(state, noopHandle{}, time.Millisecond, newSchedulerLogger(nil, false), metrics.NewNoopRecorder())
}

func TestExecutorFinishesActivityWithNoEvents(t *testing.T) {
	state := newWorkerState(0)
	act := &recorderActivity{}
	rec := newActivityRecord(Identifier{Sequence: 1}, "default", act, false, false)
	state.addRunnable(rec)

	ex := newTestExecutor(state)

	require.True(t, ex.stepRunnable())
	assert.Equal(t, []string{"initialize", "cleanup"}, act.calls)
	assert.True(t, state.isEmpty())
}

func TestExecutorSuspendsUntilEventArrives(t *testing.T) {
	state := newWorkerState(0)
	act := &recorderActivity{wantEvents: 1}
	id := Identifier{Sequence: 1}
	rec := newActivityRecord(id, "default", act, false, true)
	state.addRunnable(rec)

	ex := newTestExecutor(state)

	require.True(t, ex.stepRunnable())
	assert.Equal(t, []string{"initialize"}, act.calls)
	assert.False(t, state.isEmpty())
	assert.False(t, ex.stepSuspended(), "no event yet, nothing to resume")

	state.events.push(id, &Event{Destination: id, Payload: stringPayload("hello")})

	require.True(t, ex.stepSuspended())
	assert.Equal(t, []string{"initialize", "process", "cleanup"}, act.calls)
	assert.Equal(t, []string{"hello"}, act.processed)
	assert.True(t, state.isEmpty())
}

// eagerCollector reports Finish straight from Initialize but is
// submitted with expectsEvents=true, so the executor must route it to
// Process (or the suspended map) instead of cleaning it up.
type eagerCollector struct {
	calls     []string
	processed []string
}

func (a *eagerCollector) Initialize(h Handle, id Identifier) State {
	a.calls = append(a.calls, "initialize")
	return Finish
}

func (a *eagerCollector) Process(h Handle, e *Event, id Identifier) State {
	a.calls = append(a.calls, "process")
	a.processed = append(a.processed, string(e.Payload.(stringPayload)))
	return Finish
}

func (a *eagerCollector) Cleanup(h Handle) {
	a.calls = append(a.calls, "cleanup")
}

func TestExecutorFinishWithExpectedEventAlreadyQueued(t *testing.T) {
	state := newWorkerState(0)
	act := &eagerCollector{}
	id := Identifier{Sequence: 1}
	state.addRunnable(newActivityRecord(id, "default", act, false, true))
	state.events.push(id, &Event{Destination: id, Payload: stringPayload("early")})

	ex := newTestExecutor(state)

	require.True(t, ex.stepRunnable())
	assert.Equal(t, []string{"initialize", "process", "cleanup"}, act.calls)
	assert.Equal(t, []string{"early"}, act.processed)
	assert.True(t, state.isEmpty())
}

func TestExecutorFinishWithExpectedEventStillPendingSuspends(t *testing.T) {
	state := newWorkerState(0)
	act := &eagerCollector{}
	id := Identifier{Sequence: 1}
	state.addRunnable(newActivityRecord(id, "default", act, false, true))

	ex := newTestExecutor(state)

	require.True(t, ex.stepRunnable())
	assert.Equal(t, []string{"initialize"}, act.calls)
	assert.True(t, state.has(id), "activity should be parked in the suspended map")

	state.events.push(id, &Event{Destination: id, Payload: stringPayload("late")})

	require.True(t, ex.stepSuspended())
	assert.Equal(t, []string{"initialize", "process", "cleanup"}, act.calls)
	assert.True(t, state.isEmpty())
}

func TestExecutorRunExitsOnDrainedShutdown(t *testing.T) {
	state := newWorkerState(0)
	ex := newTestExecutor(state)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdown := make(chan struct{})
	close(shutdown)

	done := make(chan struct{})
	go func() {
		ex.run(ctx, shutdown)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor did not exit on drained shutdown")
	}
}

func TestExecutorRunWaitsForDrainBeforeExiting(t *testing.T) {
	state := newWorkerState(0)
	act := &recorderActivity{wantEvents: 1}
	id := Identifier{Sequence: 1}
	state.addRunnable(newActivityRecord(id, "default", act, false, true))

	ex := newTestExecutor(state)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shutdown := make(chan struct{})
	close(shutdown)

	done := make(chan struct{})
	go func() {
		ex.run(ctx, shutdown)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("executor exited while an activity was still suspended")
	case <-time.After(20 * time.Millisecond):
	}

	state.events.push(id, &Event{Destination: id, Payload: stringPayload("later")})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("executor did not exit after draining")
	}
}
