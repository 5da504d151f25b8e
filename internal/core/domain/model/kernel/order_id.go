package kernel

import (
	"fmt"
	"math/rand/v2"
	"regexp"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

const (
	// OrderIDLength is the number of digits in a human-readable order code.
	OrderIDLength = 6

	// orderIDMin and orderIDMax bound the numeric space for generated codes.
	// The first digit is never zero so the code survives copy-paste into
	// spreadsheet cells without losing its leading digit.
	orderIDMin = 100000
	orderIDMax = 999999
)

// ErrOrderIDIsNotConstructed is returned when attempting to use an improperly
// initialized OrderID. Order IDs must be created via GenerateOrderID or
// OrderIDFromString.
var ErrOrderIDIsNotConstructed = errs.NewValueIsRequiredError(
	"order ID must be created via GenerateOrderID or OrderIDFromString")

var orderIDPattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// OrderID is a value object representing the short human-readable order code
// shared across the store, the spreadsheet mirror, and the chat channel.
//
// The code is exactly six digits and never starts with zero. It is short
// enough for an operator to type from a phone, which is why it is used as
// the cross-system key instead of a UUID.
//
// The zero value of OrderID is invalid and must be constructed using
// GenerateOrderID or OrderIDFromString.
//
// Example:
//
//	id := kernel.GenerateOrderID()
//	fmt.Println(id.String()) // e.g., "482913"
type OrderID struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// GenerateOrderID creates a new random six-digit order code.
// Uniqueness is not guaranteed here; the order repository checks for
// collisions and the caller retries generation a bounded number of times.
func GenerateOrderID() OrderID {
	n := rand.IntN(orderIDMax-orderIDMin+1) + orderIDMin //nolint:gosec // codes are not secrets
	return OrderID{
		value: fmt.Sprintf("%d", n),
		guard: guard.NewConstructorGuard(),
	}
}

// OrderIDFromString parses an order code from its string representation.
// The string must be exactly six digits and must not start with zero.
// Returns an error if the string does not match the order code format.
//
// This function is typically used when reconstructing orders from
// persistence or when parsing codes typed by an operator in the chat channel.
//
// Example:
//
//	id, err := kernel.OrderIDFromString("482913")
//	if err != nil {
//	    return fmt.Errorf("invalid order ID: %w", err)
//	}
func OrderIDFromString(s string) (OrderID, error) {
	if !orderIDPattern.MatchString(s) {
		return OrderID{}, errs.NewValueIsInvalidErrorWithCause("orderId",
			fmt.Errorf("%q is not a %d-digit order code", s, OrderIDLength))
	}
	return OrderID{
		value: s,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// String returns the six-digit code.
func (id OrderID) String() string {
	return id.value
}

// IsEqual compares two order IDs by value.
func (id OrderID) IsEqual(other OrderID) bool {
	return id.value == other.value
}

// Validate checks if the OrderID was properly constructed.
// Returns ErrOrderIDIsNotConstructed for the zero value.
func (id OrderID) Validate() error {
	return id.guard.Validate(ErrOrderIDIsNotConstructed)
}
