package order

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfilment workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Shipped ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal states. A transition to the
// current status is always rejected so duplicate operator actions
// surface as errors instead of silently passing.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence, the spreadsheet mirror, and
// chat messages.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after checkout. The order is waiting
	// for an operator to confirm it.
	Pending

	// Confirmed indicates an operator accepted the order and it is being
	// prepared for shipment.
	Confirmed

	// Shipped indicates the order was handed to the carrier. Reaching this
	// status requires a tracking number.
	Shipped

	// Delivered indicates the buyer received the order.
	// This is a final state with no further transitions allowed.
	Delivered

	// Cancelled indicates the order was called off before shipment.
	// This is a final state with no further transitions allowed.
	Cancelled
)

// getStatusStrings returns a map of Status values to their wire representations.
// These strings are what the store, the mirror, and the chat channel exchange.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Shipped:   "shipped",
		Delivered: "delivered",
		Cancelled: "cancelled",
	}
}

// getStatusLabels returns the staff-facing labels shown in the spreadsheet
// mirror and chat messages.
func getStatusLabels() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Awaiting confirmation",
		Confirmed: "Confirmed",
		Shipped:   "Shipped",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// getValidTransitions returns the full transition table of the state machine.
// A target absent from the source's list is an illegal transition.
func getValidTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Shipped, Cancelled},
		Shipped:   {Delivered},
		Delivered: {},
		Cancelled: {},
	}
}

// StatusFromString parses a wire representation into a Status.
// Returns an error for strings outside the closed five-value enum.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Confirmed, Shipped, Delivered, Cancelled.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidTransitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Returns "unknown" for invalid status values. This method implements the
// fmt.Stringer interface and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Label returns the staff-facing label for this status, used in the
// spreadsheet mirror's status column and in chat messages.
func (s Status) Label() string {
	if label, ok := getStatusLabels()[s]; ok {
		return label
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	targets, ok := getValidTransitions()[s]
	return ok && len(targets) == 0
}

// IsValidTransition reports whether the state machine allows moving from
// the current status to target. A self-transition is never valid.
func (s Status) IsValidTransition(target Status) bool {
	if s == target {
		return false
	}
	for _, allowed := range getValidTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Explain returns guidance for a human operator on why a transition from
// the current status to target is rejected. For a legal transition it
// returns an empty string.
//
// The messages are written for the chat channel, where an operator acts
// from a phone and needs to know the corrective step, not just that the
// action failed.
func (s Status) Explain(target Status) string {
	if target.Validate() != nil {
		return "unknown target status"
	}
	if s.Validate() != nil {
		return "order has no valid status"
	}
	if s.IsValidTransition(target) {
		return ""
	}

	if s == target {
		return fmt.Sprintf("order is already %s", s.Label())
	}
	if s.IsTerminal() {
		return fmt.Sprintf("order is %s, no further changes are possible", s.Label())
	}

	switch {
	case s == Pending && target == Shipped:
		return "confirm the order before shipping it"
	case s == Pending && target == Delivered:
		return "confirm and ship the order before marking it delivered"
	case s == Confirmed && target == Delivered:
		return "ship the order before marking it delivered"
	case s == Shipped && target == Cancelled:
		return "a shipped order can no longer be cancelled"
	default:
		return fmt.Sprintf("cannot move order from %s to %s", s.Label(), target.Label())
	}
}
