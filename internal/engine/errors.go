package engine

import "fmt"

// ValidationError blocks a transition before anything is written. The
// message is safe to show to the representative as a corrective hint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// TransitionError rejects an operation invoked against the wrong lifecycle
// state, before anything is written.
type TransitionError struct {
	Entity    string // "route" or "stop"
	Status    string // current state
	Attempted string // operation name
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s in status %q", e.Attempted, e.Entity, e.Status)
}

// PersistenceError wraps a failed store write. Transitions are retryable
// from their entry state: no step advances state until its own write
// succeeds, so the caller may simply repeat the call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persist(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
