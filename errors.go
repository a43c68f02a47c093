package constellation

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates the facade-level failures a Constellation can
// report.
type ErrorKind int

const (
	// StateError: an operation was called while the facade was in a
	// state that does not permit it (e.g. Submit before Activate).
	StateError ErrorKind = iota
	// ShutdownPending: the operation was rejected because shutdown has
	// already been requested.
	ShutdownPending
	// InternalInvariant: a scheduler invariant was violated; this
	// indicates a bug in the scheduler itself, not caller misuse.
	InternalInvariant
	// TransportError: the configured Transport failed to answer a node
	// identity or delivery request.
	TransportError
)

func (k ErrorKind) String() string {
	switch k {
	case StateError:
		return "StateError"
	case ShutdownPending:
		return "ShutdownPending"
	case InternalInvariant:
		return "InternalInvariant"
	case TransportError:
		return "TransportError"
	default:
		return "Unknown"
	}
}

// SchedulerError carries a discriminated ErrorKind and, where relevant,
// the Identifier it concerns. It wraps an underlying cause, so
// errors.Is/errors.As keep working through it.
type SchedulerError struct {
	Kind       ErrorKind
	Identifier Identifier
	err        error
}

// NewSchedulerError wraps err with kind/identifier metadata. err may be
// nil, in which case the Kind alone describes the failure.
func NewSchedulerError(kind ErrorKind, id Identifier, err error) *SchedulerError {
	return &SchedulerError{Kind: kind, Identifier: id, err: err}
}

func (e *SchedulerError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("constellation: %s", e.Kind)
	}
	return fmt.Sprintf("constellation: %s: %v", e.Kind, e.err)
}

func (e *SchedulerError) Unwrap() error { return e.err }

// AsSchedulerError extracts a *SchedulerError from err's chain.
func AsSchedulerError(err error) (*SchedulerError, bool) {
	var se *SchedulerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindOf returns the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	se, ok := AsSchedulerError(err)
	if !ok {
		return 0, false
	}
	return se.Kind, true
}

// ErrUnknownContext is wrapped into a StateError SchedulerError by Submit
// when an activity's run context is not among Config.Contexts.
var ErrUnknownContext = errors.New("constellation: no worker configured for the given context")
