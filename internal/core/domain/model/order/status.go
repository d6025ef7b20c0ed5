package order

import (
	"fmt"

	"quetzalship/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with a single permitted transition:
//
//	Active ──> Cancelled
//
// Cancelled is terminal with no outgoing transitions. Cancellation is
// deliberately not idempotent: cancelling an already-cancelled order is a
// precondition failure, not a no-op.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusActive is the initial status assigned at creation.
	StatusActive

	// StatusCancelled indicates the order has been cancelled.
	// This is a final state with no further transitions allowed.
	StatusCancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusActive:    "ACTIVE",
		StatusCancelled: "CANCELLED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusActive:    "ACTIVE",
		StatusCancelled: "CANCELLED",
	}
}

// StatusFromString parses a canonical status string ("ACTIVE", "CANCELLED")
// into a Status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a known status", s))
}

// Validate checks if the Status value is valid.
// Valid statuses are: StatusActive, StatusCancelled.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical name of the status.
// This method implements the fmt.Stringer interface and is safe to call on
// any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Cancel transitions the status to StatusCancelled.
//
// Valid transitions:
//   - Active -> Cancelled
//
// Invalid transitions:
//   - Cancelled -> Cancelled (precondition failure: already cancelled)
//   - Unknown -> Cancelled (invalid initial state)
//
// Returns:
//   - (StatusCancelled, nil) on valid transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) Cancel() (Status, error) {
	switch s {
	case StatusActive:
		return StatusCancelled, nil
	case StatusCancelled:
		return 0, errs.NewPreconditionFailedError("order already cancelled")
	default:
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}
}
