package constellation

import (
	"context"
	"sync"
	"time"

	"github.com/constellation-go/constellation/metrics"
)

// ingestQueue is an unbounded, mutex-guarded FIFO, used for the
// coordinator's activity/event ingest queues and its local-waiting queue.
// A plain slice under a single mutex, rather than a fixed-capacity
// channel, is what lets these queues stay genuinely unbounded.
type ingestQueue[T any] struct {
	mu    sync.Mutex
	items []T
}

func (q *ingestQueue[T]) push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()
}

func (q *ingestQueue[T]) drain() []T {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

func (q *ingestQueue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *ingestQueue[T]) some(match func(T) bool) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, v := range q.items {
		if match(v) {
			return true
		}
	}
	return false
}

// coordinator is the routing hub between workers: a dedicated goroutine
// that, once per PollInterval tick, distributes newly
// submitted activities to the least-loaded worker, routes or parks newly
// sent events, and re-attempts the parked events still waiting for their
// destination to appear.
type coordinator struct {
	pollInterval time.Duration
	generator    *identifierGenerator
	logger       *schedulerLogger
	metrics      metrics.Recorder
	transportN   func() int
	transportM   func() bool

	workers []*workerState

	activityIngest ingestQueue[*ActivityRecord]
	eventIngest    ingestQueue[Event]
	waiting        ingestQueue[Event]
}

func newCoordinator(cfg *Config, ident *identifierGenerator, logger *schedulerLogger, rec metrics.Recorder, workers []*workerState) *coordinator {
	return &coordinator{
		pollInterval: cfg.PollInterval,
		generator:    ident,
		logger:       logger,
		metrics:      rec,
		transportN:   cfg.Transport.NodeCount,
		transportM:   cfg.Transport.IsMaster,
		workers:      workers,
	}
}

func (c *coordinator) run(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			c.distributeActivities()
			c.distributeEvents()
			c.retryWaiting()
			c.metrics.PollDuration(time.Since(start).Seconds())
		}
	}
}

func (c *coordinator) submit(activity Activity, runContext string, mayBeStolen, expectsEvents bool) (Identifier, error) {
	id := c.generator.next()
	rec := newActivityRecord(id, runContext, activity, mayBeStolen, expectsEvents)
	c.activityIngest.push(rec)
	return id, nil
}

func (c *coordinator) send(event Event) error {
	c.eventIngest.push(event)
	return nil
}

func (c *coordinator) distributeActivities() {
	for _, rec := range c.activityIngest.drain() {
		idx := c.leastLoadedWorker()
		c.workers[idx].addRunnable(rec)
		c.metrics.RunnableDepth(idx, 1)
		c.logger.activityAssigned(rec.ID, idx)
		c.metrics.ActivitySubmitted()
	}
}

func (c *coordinator) leastLoadedWorker() int {
	best := 0
	bestLoad := c.workers[0].load()
	for i := 1; i < len(c.workers); i++ {
		if l := c.workers[i].load(); l < bestLoad {
			best, bestLoad = i, l
		}
	}
	return best
}

func (c *coordinator) distributeEvents() {
	for _, e := range c.eventIngest.drain() {
		c.routeOrPark(e)
	}
}

func (c *coordinator) routeOrPark(e Event) {
	// an older event for the same destination may still be parked; routing
	// past it would break per-destination send order, so this one queues
	// up behind it instead.
	if c.waiting.some(func(w Event) bool { return w.Destination == e.Destination }) {
		c.park(e)
		return
	}
	for i, w := range c.workers {
		if w.has(e.Destination) {
			event := e
			w.events.push(e.Destination, &event)
			c.logger.eventRouted(e.Destination, i)
			c.metrics.EventRouted()
			return
		}
	}
	c.park(e)
}

func (c *coordinator) park(e Event) {
	c.waiting.push(e)
	c.logger.eventParked(e.Destination)
	c.metrics.EventParked()
}

// retryWaiting re-attempts every parked event once per tick, oldest
// first. Events that still have no resident destination re-park in their
// original relative order, so two parked events for the same destination
// can never leapfrog each other, and an immortal unknown destination at
// the head cannot starve the events parked behind it.
func (c *coordinator) retryWaiting() {
	for _, e := range c.waiting.drain() {
		c.routeOrPark(e)
	}
}

// idle reports whether the coordinator has no pending ingest or parked
// work, one of the conditions Done polls for.
func (c *coordinator) idle() bool {
	return c.activityIngest.len() == 0 && c.eventIngest.len() == 0 && c.waiting.len() == 0
}

func (c *coordinator) singleWorker() bool { return len(c.workers) == 1 }

func (c *coordinator) nodeIdentity() Identifier { return c.generator.nodeIdentity() }
func (c *coordinator) nodeCount() int           { return c.transportN() }
func (c *coordinator) isMaster() bool           { return c.transportM() }
