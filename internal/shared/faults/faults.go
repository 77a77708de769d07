package faults

import (
	"errors"
	"fmt"
)

// Failure kinds returned by the assignment and waitlist cores. Callers
// branch with errors.Is; business outcomes are never raised as panics.
var (
	// ErrInvalidRequest marks malformed date/time/party-size input,
	// rejected before any search runs.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoAvailability means the search exhausted all candidates.
	// Recoverable by routing the request into the waitlist.
	ErrNoAvailability = errors.New("no availability")

	// ErrCapacityExceeded means the party size is beyond the automatic
	// assignment ceiling; always paired with an escalation flag.
	ErrCapacityExceeded = errors.New("party size exceeds automatic ceiling")

	// ErrHoldConflict means another caller won the race for the same
	// (table, date, shift) key. Retried internally before surfacing.
	ErrHoldConflict = errors.New("concurrent hold conflict")

	// ErrInvalidTransition marks a waitlist transition attempted from a
	// state that does not permit it.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrAlreadyFinalized distinguishes a repeated confirm/release on a
	// hold that was already finalized; idempotent, but observable.
	ErrAlreadyFinalized = errors.New("hold already finalized")

	// ErrServiceUnavailable marks an unreachable external collaborator.
	// Never fatal: callers absorb it with a documented default.
	ErrServiceUnavailable = errors.New("external service unavailable")
)

// Invalidf wraps ErrInvalidRequest with a formatted detail message.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidRequest}, args...)...)
}
