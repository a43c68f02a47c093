package constellation

// Payload is carried by an Event. The scheduler never inspects a
// payload's contents; it only moves the Event between queues. Clone lets
// an activity hand a payload to another activity without sharing mutable
// state with its own copy.
type Payload interface {
	Clone() Payload
}

// Event is a point-to-point message from one activity to another, created
// by Handle.Send and delivered to the destination activity's next Process
// call. Events addressed to the same destination are delivered in the
// order they were sent; there is no ordering guarantee across distinct
// destinations.
type Event struct {
	Source      Identifier
	Destination Identifier
	Payload     Payload
}
