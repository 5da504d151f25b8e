package kernel

import (
	"fmt"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// AddressKind tags the delivery address variant.
type AddressKind int

const (
	// AddressUnknown represents an invalid or undefined address variant.
	AddressUnknown AddressKind = iota

	// AddressStreet is a structured street address for courier delivery.
	AddressStreet

	// AddressPickupPoint is a named carrier pickup point.
	AddressPickupPoint
)

// String returns the wire representation of the kind, used in the orders
// table's address_kind column.
func (k AddressKind) String() string {
	switch k {
	case AddressStreet:
		return "street"
	case AddressPickupPoint:
		return "pickup_point"
	default:
		return "unknown"
	}
}

// AddressKindFromString parses a wire representation into an AddressKind.
func AddressKindFromString(s string) (AddressKind, error) {
	switch s {
	case "street":
		return AddressStreet, nil
	case "pickup_point":
		return AddressPickupPoint, nil
	default:
		return AddressUnknown, errs.NewValueIsInvalidErrorWithCause("addressKind",
			fmt.Errorf("%q is not a valid address kind", s))
	}
}

// ErrAddressIsNotConstructed is returned when attempting to use an improperly
// initialized Address. Addresses must be created via NewStreetAddress or
// NewPickupPointAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewStreetAddress or NewPickupPointAddress")

// Address is a tagged-variant value object for the order's delivery
// destination: either a structured street address or a reference to a
// carrier pickup point. The variant tag keeps the two shapes from being
// mixed; fields of the inactive variant stay empty.
//
// Example:
//
//	addr, _ := kernel.NewPickupPointAddress("Nova Poshta", 52)
//	fmt.Println(addr.String()) // Output: Nova Poshta, branch #52
type Address struct { //nolint:recvcheck //using for validation
	kind AddressKind

	// street variant
	city      string
	street    string
	building  string
	apartment string

	// pickup point variant
	carrier string
	branch  int

	guard guard.ConstructorGuard
}

// NewStreetAddress creates a structured street address.
// City, street, and building are required; apartment is optional.
func NewStreetAddress(city, street, building, apartment string) (Address, error) {
	if city == "" {
		return Address{}, errs.NewValueIsRequiredError("city")
	}
	if street == "" {
		return Address{}, errs.NewValueIsRequiredError("street")
	}
	if building == "" {
		return Address{}, errs.NewValueIsRequiredError("building")
	}
	return Address{
		kind:      AddressStreet,
		city:      city,
		street:    street,
		building:  building,
		apartment: apartment,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// NewPickupPointAddress creates a carrier pickup point reference.
// The branch number must be positive.
func NewPickupPointAddress(carrier string, branch int) (Address, error) {
	if carrier == "" {
		return Address{}, errs.NewValueIsRequiredError("carrier")
	}
	if branch <= 0 {
		return Address{}, errs.NewValueIsInvalidErrorWithCause("branch",
			fmt.Errorf("%d is not greater than 0", branch))
	}
	return Address{
		kind:    AddressPickupPoint,
		carrier: carrier,
		branch:  branch,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Kind returns the address variant tag.
func (a Address) Kind() AddressKind {
	return a.kind
}

// City returns the city of the street variant, or "" for pickup points.
func (a Address) City() string { return a.city }

// Street returns the street of the street variant, or "" for pickup points.
func (a Address) Street() string { return a.street }

// Building returns the building of the street variant, or "" for pickup points.
func (a Address) Building() string { return a.building }

// Apartment returns the apartment of the street variant, or "" when absent.
func (a Address) Apartment() string { return a.apartment }

// Carrier returns the carrier name of the pickup variant, or "" for street addresses.
func (a Address) Carrier() string { return a.carrier }

// Branch returns the branch number of the pickup variant, or 0 for street addresses.
func (a Address) Branch() int { return a.branch }

// String formats the address the way the spreadsheet mirror displays it.
func (a Address) String() string {
	switch a.kind {
	case AddressStreet:
		if a.apartment != "" {
			return fmt.Sprintf("%s, %s %s, apt. %s", a.city, a.street, a.building, a.apartment)
		}
		return fmt.Sprintf("%s, %s %s", a.city, a.street, a.building)
	case AddressPickupPoint:
		return fmt.Sprintf("%s, branch #%d", a.carrier, a.branch)
	default:
		return ""
	}
}

// Validate checks if the Address was properly constructed.
func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}
