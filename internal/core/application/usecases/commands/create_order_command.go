package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a checkout request arriving at the store of
// record. Carries the buyer's cart, the total the storefront displayed, the
// delivery address and customer contact details, plus an optional promo code.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(buyerID, lines, total, address,
//	    "Olena Kovalenko", "+380671234567", "olena@example.com", "", "WELCOME10")
//	if err != nil {
//	    return fmt.Errorf("invalid checkout data: %w", err)
//	}
//
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	buyerID       kernel.UUID
	lines         []order.Line
	declaredTotal kernel.Money
	address       kernel.Address
	customerName  string
	customerPhone string
	customerEmail string
	notes         string
	promoCode     string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the buyer ID, every line, the declared total and the
// address are well-formed and that a customer name and phone are present.
// Whether the declared total matches the cart arithmetic is the aggregate's
// concern, checked in the handler.
func NewCreateOrderCommand(
	buyerID kernel.UUID,
	lines []order.Line,
	declaredTotal kernel.Money,
	address kernel.Address,
	customerName string,
	customerPhone string,
	customerEmail string,
	notes string,
	promoCode string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerEmail: customerEmail,
		notes:         notes,
		promoCode:     promoCode,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setBuyerID(buyerID),
		cmd.setLines(lines),
		cmd.setDeclaredTotal(declaredTotal),
		cmd.setAddress(address),
		cmd.setCustomerName(customerName),
		cmd.setCustomerPhone(customerPhone),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// BuyerID returns the buyer's identifier.
func (c CreateOrderCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

// Lines returns the cart lines.
func (c CreateOrderCommand) Lines() []order.Line {
	return c.lines
}

// DeclaredTotal returns the total the storefront displayed at checkout.
func (c CreateOrderCommand) DeclaredTotal() kernel.Money {
	return c.declaredTotal
}

// Address returns the delivery address.
func (c CreateOrderCommand) Address() kernel.Address {
	return c.address
}

// CustomerName returns the customer's name.
func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}

// CustomerPhone returns the customer's phone number.
func (c CreateOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

// CustomerEmail returns the customer's email, possibly empty.
func (c CreateOrderCommand) CustomerEmail() string {
	return c.customerEmail
}

// Notes returns free-form order notes, possibly empty.
func (c CreateOrderCommand) Notes() string {
	return c.notes
}

// PromoCode returns the promo code the buyer entered, empty for none.
func (c CreateOrderCommand) PromoCode() string {
	return c.promoCode
}

func (c *CreateOrderCommand) setBuyerID(buyerID kernel.UUID) error {
	if err := buyerID.Validate(); err != nil {
		return err
	}

	c.buyerID = buyerID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []order.Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return err
		}
	}

	c.lines = append([]order.Line(nil), lines...)
	return nil
}

func (c *CreateOrderCommand) setDeclaredTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}

	c.declaredTotal = total
	return nil
}

func (c *CreateOrderCommand) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

func (c *CreateOrderCommand) setCustomerName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("customerName")
	}

	c.customerName = name
	return nil
}

func (c *CreateOrderCommand) setCustomerPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("customerPhone")
	}

	c.customerPhone = phone
	return nil
}
