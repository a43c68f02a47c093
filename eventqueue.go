package constellation

import (
	"sync"

	"github.com/constellation-go/constellation/internal/eventpool"
)

// eventNode is a singly linked list node; nodes are recycled via nodePool
// rather than reallocated on every push/pop.
type eventNode struct {
	event *Event
	next  *eventNode
}

var nodePool = eventpool.New(func() *eventNode { return &eventNode{} })

type eventList struct {
	head, tail *eventNode
}

// eventQueue is a per-worker collection of FIFO queues, one per
// destination Identifier, guarded by a single mutex. Every method holds
// that mutex for the whole call; callers must not hold another worker
// lock across a call.
type eventQueue struct {
	mu   sync.Mutex
	byID map[Identifier]*eventList
}

func newEventQueue() *eventQueue {
	return &eventQueue{byID: make(map[Identifier]*eventList)}
}

func (q *eventQueue) push(dst Identifier, e *Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := nodePool.Get()
	n.event = e
	n.next = nil

	l, ok := q.byID[dst]
	if !ok {
		l = &eventList{}
		q.byID[dst] = l
	}
	if l.tail == nil {
		l.head, l.tail = n, n
	} else {
		l.tail.next = n
		l.tail = n
	}
}

func (q *eventQueue) pop(dst Identifier) (*Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	l, ok := q.byID[dst]
	if !ok || l.head == nil {
		return nil, false
	}

	n := l.head
	l.head = n.next
	if l.head == nil {
		l.tail = nil
		delete(q.byID, dst)
	}

	e := n.event
	n.event = nil
	n.next = nil
	nodePool.Put(n)

	return e, true
}

func (q *eventQueue) contains(dst Identifier) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	l, ok := q.byID[dst]
	return ok && l.head != nil
}

func (q *eventQueue) keys() []Identifier {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Identifier, 0, len(q.byID))
	for k := range q.byID {
		out = append(out, k)
	}
	return out
}

func (q *eventQueue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.byID) == 0
}
