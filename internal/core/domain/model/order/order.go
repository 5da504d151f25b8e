package order

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrNoLines is returned when an order is created without any order lines.
	ErrNoLines = errors.New("order must contain at least one line")

	// ErrTotalMismatch is returned when the declared total does not equal the sum
	// of line totals minus the discount. The mismatch is rejected before any
	// store write happens.
	ErrTotalMismatch = errors.New("total does not match sum of line totals")

	// ErrTrackingNumberRequired is returned when attempting the shipped
	// transition before a tracking number has been attached.
	ErrTrackingNumberRequired = errors.New("tracking number is required before shipping")

	// ErrTrackingIsFixed is returned when attempting to attach a tracking number
	// after the order has already shipped or reached a terminal status.
	ErrTrackingIsFixed = errors.New("tracking number can no longer be changed")
)

// CustomerPatch carries late-arriving customer metadata. Nil fields are
// left untouched; non-nil fields overwrite, including with empty strings.
type CustomerPatch struct {
	Name  *string
	Phone *string
	Email *string
	Notes *string
}

// Order represents a storefront order. It is the aggregate root that manages
// the order lifecycle from checkout through confirmation, shipment, and
// delivery, and is the single source of truth that the spreadsheet mirror
// and chat channel are derived from.
//
// Order follows these invariants:
//   - Must have a valid six-digit order ID, buyer ID, and delivery address
//   - Must contain at least one line; every line has positive qty and unit price
//   - Total equals the sum of line totals minus the discount, fixed at creation
//     time and never recomputed on status changes
//   - Status transitions follow the Status state machine; the shipped
//     transition additionally requires an attached tracking number
//   - updatedAt is bumped monotonically on every mutation
//   - Can only be created through NewOrder or RestoreOrder
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods. Orders are never deleted.
type Order struct {
	id      kernel.OrderID
	buyerID kernel.UUID

	lines    []Line
	total    kernel.Money
	discount kernel.Money

	status  Status
	address kernel.Address

	customerName  string
	customerPhone string
	customerEmail string
	notes         string

	tracking *kernel.TrackingNumber

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order in Pending status with validation. This is the
// only way to create a fresh order, ensuring all business invariants hold.
//
// The declared total must equal the sum of line totals minus the discount;
// checkout requests that disagree with their own arithmetic are rejected
// here, before anything is persisted. Pass a zero Money discount when no
// promo code was applied.
func NewOrder(
	id kernel.OrderID,
	buyerID kernel.UUID,
	lines []Line,
	declaredTotal kernel.Money,
	discount kernel.Money,
	address kernel.Address,
	customerName string,
	customerPhone string,
	customerEmail string,
	notes string,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		buyerID.Validate(),
		declaredTotal.Validate(),
		discount.Validate(),
		address.Validate(),
	); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	sum, err := kernel.NewMoney(0)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if lineErr := line.Validate(); lineErr != nil {
			return nil, lineErr
		}
		sum = sum.Add(line.LineTotal())
	}

	if !sum.Sub(discount).IsEqual(declaredTotal) {
		return nil, ErrTotalMismatch
	}

	return &Order{
		id:            id,
		buyerID:       buyerID,
		lines:         append([]Line(nil), lines...),
		total:         declaredTotal,
		discount:      discount,
		status:        Pending,
		address:       address,
		customerName:  customerName,
		customerPhone: customerPhone,
		customerEmail: customerEmail,
		notes:         notes,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence without re-deriving
// the creation-time invariants. The status must still be a valid enum value.
// This is used by the repository layer only.
func RestoreOrder(
	id kernel.OrderID,
	buyerID kernel.UUID,
	lines []Line,
	total kernel.Money,
	discount kernel.Money,
	status Status,
	address kernel.Address,
	customerName string,
	customerPhone string,
	customerEmail string,
	notes string,
	tracking *kernel.TrackingNumber,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		buyerID.Validate(),
		total.Validate(),
		discount.Validate(),
		status.Validate(),
		address.Validate(),
	); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	if tracking != nil {
		if err := tracking.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:            id,
		buyerID:       buyerID,
		lines:         append([]Line(nil), lines...),
		total:         total,
		discount:      discount,
		status:        status,
		address:       address,
		customerName:  customerName,
		customerPhone: customerPhone,
		customerEmail: customerEmail,
		notes:         notes,
		tracking:      tracking,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through a factory.
// This prevents bypassing validation by directly instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their order IDs.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the six-digit order code.
func (o *Order) ID() kernel.OrderID {
	return o.id
}

// BuyerID returns the buyer's identity.
func (o *Order) BuyerID() kernel.UUID {
	return o.buyerID
}

// Lines returns a copy of the order lines.
func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

// Total returns the order total fixed at creation time.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Discount returns the promo discount applied at creation, zero when none.
func (o *Order) Discount() kernel.Money {
	return o.discount
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Address returns the delivery address.
func (o *Order) Address() kernel.Address {
	return o.address
}

// CustomerName returns the customer's display name.
func (o *Order) CustomerName() string { return o.customerName }

// CustomerPhone returns the customer's phone number.
func (o *Order) CustomerPhone() string { return o.customerPhone }

// CustomerEmail returns the customer's email address.
func (o *Order) CustomerEmail() string { return o.customerEmail }

// Notes returns the free-text order notes.
func (o *Order) Notes() string { return o.notes }

// Tracking returns the attached tracking number, or nil before shipment
// details are collected.
func (o *Order) Tracking() *kernel.TrackingNumber {
	return o.tracking
}

// CreatedAt returns the creation timestamp. It determines which monthly
// tab of the spreadsheet mirror the order's row lives in.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the timestamp of the last mutation.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ChangeStatus transitions the order to target according to the Status
// state machine.
//
// The transition is rejected without mutating anything when the state
// machine forbids it (including self-transitions) or when target is Shipped
// and no tracking number has been attached. Use Status().Explain(target)
// for the operator-facing rejection text.
//
// Status changes never alter lines, total, or discount.
func (o *Order) ChangeStatus(target Status, now time.Time) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if !o.status.IsValidTransition(target) {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New(o.status.Explain(target)))
	}

	if target == Shipped && o.tracking == nil {
		return ErrTrackingNumberRequired
	}

	o.status = target
	o.touch(now)
	return nil
}

// AttachTracking stores the carrier tracking number collected in the chat
// conversation. Re-attaching before shipment overwrites the previous value
// so an operator can correct a mistyped number; after the shipped
// transition (or in a terminal status) the number is fixed.
func (o *Order) AttachTracking(tn kernel.TrackingNumber, now time.Time) error {
	if err := tn.Validate(); err != nil {
		return err
	}

	if o.status == Shipped || o.status.IsTerminal() {
		return ErrTrackingIsFixed
	}

	o.tracking = &tn
	o.touch(now)
	return nil
}

// PatchCustomer applies late-arriving customer metadata. Returns true if
// any field changed; updatedAt is bumped only in that case.
func (o *Order) PatchCustomer(patch CustomerPatch, now time.Time) bool {
	changed := false

	if patch.Name != nil && *patch.Name != o.customerName {
		o.customerName = *patch.Name
		changed = true
	}
	if patch.Phone != nil && *patch.Phone != o.customerPhone {
		o.customerPhone = *patch.Phone
		changed = true
	}
	if patch.Email != nil && *patch.Email != o.customerEmail {
		o.customerEmail = *patch.Email
		changed = true
	}
	if patch.Notes != nil && *patch.Notes != o.notes {
		o.notes = *patch.Notes
		changed = true
	}

	if changed {
		o.touch(now)
	}
	return changed
}

// touch bumps updatedAt, keeping it strictly monotonic even when the
// wall clock did not advance between two mutations.
func (o *Order) touch(now time.Time) {
	if !now.After(o.updatedAt) {
		now = o.updatedAt.Add(time.Millisecond)
	}
	o.updatedAt = now
}
