package kernel

import (
	"fmt"
	"regexp"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// TrackingNumberLength is the number of digits in a carrier tracking number.
const TrackingNumberLength = 14

// ErrTrackingNumberIsNotConstructed is returned when attempting to use an
// improperly initialized TrackingNumber.
var ErrTrackingNumberIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking number must be created via TrackingNumberFromString")

var trackingNumberPattern = regexp.MustCompile(`^[0-9]{14}$`)

// TrackingNumber is a carrier-issued shipment identifier, validated as a
// fixed-length digit string. An order cannot transition to shipped without
// one, so the conversation flow re-prompts the operator until the input
// matches this format.
type TrackingNumber struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// TrackingNumberFromString parses and validates a tracking number.
// The input must be exactly fourteen digits.
func TrackingNumberFromString(s string) (TrackingNumber, error) {
	if !trackingNumberPattern.MatchString(s) {
		return TrackingNumber{}, errs.NewValueIsInvalidErrorWithCause("trackingNumber",
			fmt.Errorf("%q is not a %d-digit tracking number", s, TrackingNumberLength))
	}
	return TrackingNumber{
		value: s,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// String returns the fourteen-digit tracking number.
func (t TrackingNumber) String() string {
	return t.value
}

// IsEqual compares two tracking numbers by value.
func (t TrackingNumber) IsEqual(other TrackingNumber) bool {
	return t.value == other.value
}

// Validate checks if the TrackingNumber was properly constructed.
func (t TrackingNumber) Validate() error {
	return t.guard.Validate(ErrTrackingNumberIsNotConstructed)
}
