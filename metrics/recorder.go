// Package metrics records the scheduler's operational measurements:
// activity throughput, event routing outcomes, per-worker queue depth,
// and coordinator loop latency.
package metrics

// Recorder receives every measurement the scheduler emits.
// Implementations must be safe for concurrent use: counters are bumped
// from the coordinator goroutine and from every executor goroutine.
//
// Keep this interface minimal and stable. If you need new measurements
// later, introduce separate optional interfaces rather than expanding
// this surface.
type Recorder interface {
	// ActivitySubmitted counts an activity accepted for scheduling.
	ActivitySubmitted()
	// ActivitySuspended counts a Suspend outcome from Initialize or
	// Process.
	ActivitySuspended()
	// ActivityFinished counts an activity whose Cleanup has run.
	ActivityFinished()
	// EventRouted counts an event delivered to a resident destination.
	EventRouted()
	// EventParked counts each placement of an event in the coordinator's
	// waiting queue: a send whose destination is not resident or has an
	// older event still parked, and every re-park in a retry pass, so one
	// event can be counted many times.
	EventParked()
	// RunnableDepth moves the given worker's runnable-queue depth by
	// delta (+1 on assignment, -1 when the executor takes the record).
	RunnableDepth(worker int, delta int64)
	// PollDuration records one coordinator loop pass, in seconds.
	PollDuration(seconds float64)
}
