package constellation

import (
	"testing"
	"time"

	"github.com/constellation-go/constellation/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finishImmediately struct{ ran bool }

func (a *finishImmediately) Initialize(h Handle, id Identifier) State {
	a.ran = true
	return Finish
}
func (a *finishImmediately) Process(h Handle, e *Event, id Identifier) State { return Finish }
func (a *finishImmediately) Cleanup(h Handle)                                {}

func waitUntilDrained(t *testing.T, c *Constellation) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		res, err := c.Done()
		require.NoError(t, err)
		if res.Drained {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("constellation did not drain in time")
}

func TestConstellationHelloWorld(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	require.NoError(t, c.Activate())

	act := &finishImmediately{}
	_, err = c.Submit(act, "default", false, false)
	require.NoError(t, err)

	waitUntilDrained(t, c)
	assert.True(t, act.ran)
}

// pongActivity replies Finish as soon as it receives its one expected
// event.
type pongActivity struct{ received string }

func (a *pongActivity) Initialize(h Handle, id Identifier) State { return Suspend }
func (a *pongActivity) Process(h Handle, e *Event, id Identifier) State {
	a.received = string(e.Payload.(stringPayload))
	return Finish
}
func (a *pongActivity) Cleanup(h Handle) {}

// pingActivity submits a pong activity during its own Initialize and
// immediately sends it an event, before the pong activity has ever run.
// This exercises the coordinator's local-waiting/parking path: the event
// necessarily arrives before its destination is runnable.
type pingActivity struct {
	pong   *pongActivity
	pongID Identifier
}

func (a *pingActivity) Initialize(h Handle, id Identifier) State {
	pongID, err := h.Submit(a.pong, "default", false, true)
	if err != nil {
		panic(err)
	}
	a.pongID = pongID
	if err := h.Send(Event{Source: id, Destination: pongID, Payload: stringPayload("ping")}); err != nil {
		panic(err)
	}
	return Finish
}
func (a *pingActivity) Process(h Handle, e *Event, id Identifier) State { return Finish }
func (a *pingActivity) Cleanup(h Handle)                                {}

func TestConstellationEventRoundTripThroughParking(t *testing.T) {
	c, err := New(WithWorkerCount(2))
	require.NoError(t, err)
	require.NoError(t, c.Activate())

	pong := &pongActivity{}
	ping := &pingActivity{pong: pong}
	_, err = c.Submit(ping, "default", false, false)
	require.NoError(t, err)

	waitUntilDrained(t, c)
	assert.Equal(t, "ping", pong.received)
}

func TestConstellationRecordsMetrics(t *testing.T) {
	rec := metrics.NewBasicRecorder()
	c, err := New(WithMetrics(rec))
	require.NoError(t, err)
	require.NoError(t, c.Activate())

	_, err = c.Submit(&finishImmediately{}, "default", false, false)
	require.NoError(t, err)

	waitUntilDrained(t, c)

	s := rec.Snapshot()
	assert.Equal(t, int64(1), s.ActivitiesSubmitted)
	assert.Equal(t, int64(1), s.ActivitiesFinished)
	assert.Equal(t, int64(0), s.RunnableDepth[0])
	assert.Positive(t, s.Poll.Count)
}

type foreverSuspended struct{}

func (foreverSuspended) Initialize(h Handle, id Identifier) State        { return Suspend }
func (foreverSuspended) Process(h Handle, e *Event, id Identifier) State { return Suspend }
func (foreverSuspended) Cleanup(h Handle)                                {}

func TestConstellationDoneReportsNotDrainedWhileSuspended(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	require.NoError(t, c.Activate())

	_, err = c.Submit(foreverSuspended{}, "default", false, true)
	require.NoError(t, err)

	// give the executor a moment to pick the activity up and suspend it.
	time.Sleep(20 * time.Millisecond)

	res, err := c.Done()
	require.NoError(t, err)
	assert.False(t, res.Drained)
}

func TestConstellationRejectsSubmitBeforeActivate(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Submit(&finishImmediately{}, "default", false, false)
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, StateError, kind)
}

func TestConstellationRejectsUnknownContext(t *testing.T) {
	c, err := New(WithContexts("gpu"))
	require.NoError(t, err)
	require.NoError(t, c.Activate())

	_, err = c.Submit(&finishImmediately{}, "cpu", false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownContext)
}

func TestConstellationIdentityAndMaster(t *testing.T) {
	c, err := New(WithNodeCount(1))
	require.NoError(t, err)
	require.NoError(t, c.Activate())

	assert.True(t, c.IsMaster())
	assert.Equal(t, 1, c.Nodes())
	assert.Equal(t, uint64(0), c.Identifier().Sequence)
}
