package models

// The four expected, caller-recoverable error categories. Handlers map each
// to an HTTP status; anything else is treated as an infrastructure failure
// and surfaced as a generic 500.

// ValidationError reports malformed or missing input. The message is safe to
// surface verbatim to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// AuthorizationError reports that the acting user lacks the required role
// for the operation.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return e.Entity + " not found: " + e.ID
}

// ConflictError reports a state-dependent violation, e.g. a duplicate vote
// or an operation on a closed poll.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }
