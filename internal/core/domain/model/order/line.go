package order

import (
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// ErrLineIsNotConstructed is returned when a Line instance was not created
// through the NewLine factory method.
var ErrLineIsNotConstructed = errs.NewValueIsRequiredError("line must be created via NewLine")

// Line is a single order position: a product reference with its display
// name, quantity, unit price, and the line total fixed at creation time.
//
// Line is an immutable value object. The line total is computed once from
// qty and unit price and never recalculated afterwards, so the order total
// invariant can be checked by plain summation.
type Line struct { //nolint:recvcheck //using for validation
	productRef string
	name       string
	qty        int
	unitPrice  kernel.Money
	lineTotal  kernel.Money

	guard guard.ConstructorGuard
}

// NewLine creates an order line. Quantity and unit price must be positive;
// the product reference and display name are required.
func NewLine(productRef, name string, qty int, unitPrice kernel.Money) (Line, error) {
	if productRef == "" {
		return Line{}, errs.NewValueIsRequiredError("productRef")
	}
	if name == "" {
		return Line{}, errs.NewValueIsRequiredError("name")
	}
	if qty <= 0 {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("qty",
			fmt.Errorf("%d is not greater than 0", qty))
	}
	if err := unitPrice.Validate(); err != nil {
		return Line{}, err
	}
	if unitPrice.Amount() <= 0 {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("unitPrice",
			fmt.Errorf("%d is not greater than 0", unitPrice.Amount()))
	}

	return Line{
		productRef: productRef,
		name:       name,
		qty:        qty,
		unitPrice:  unitPrice,
		lineTotal:  unitPrice.Mul(qty),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// ProductRef returns the product reference (catalog identifier).
func (l Line) ProductRef() string { return l.productRef }

// Name returns the display name shown to staff.
func (l Line) Name() string { return l.name }

// Qty returns the ordered quantity.
func (l Line) Qty() int { return l.qty }

// UnitPrice returns the price of a single unit.
func (l Line) UnitPrice() kernel.Money { return l.unitPrice }

// LineTotal returns qty times unit price, fixed at creation time.
func (l Line) LineTotal() kernel.Money { return l.lineTotal }

// String formats the line the way the mirror's item column displays it,
// e.g. "Ceramic mug (2)".
func (l Line) String() string {
	return fmt.Sprintf("%s (%d)", l.name, l.qty)
}

// Validate checks if the Line was properly constructed.
func (l Line) Validate() error {
	return l.guard.Validate(ErrLineIsNotConstructed)
}
