package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrPatchCustomerCommandIsNotConstructed = errors.New(
	"PatchCustomerCommand must be created via NewPatchCustomerCommand constructor",
)

// PatchCustomerCommand carries late-arriving customer metadata for an
// existing order: a corrected phone number, an email supplied after
// checkout, operator notes. Nil fields are left untouched.
type PatchCustomerCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	patch   order.CustomerPatch

	guard guard.ConstructorGuard
}

// NewPatchCustomerCommand creates a command to patch customer fields.
// At least one field of the patch must be set.
func NewPatchCustomerCommand(
	orderID kernel.OrderID, patch order.CustomerPatch,
) (PatchCustomerCommand, error) {
	cmd := PatchCustomerCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPatch(patch),
	); err != nil {
		return PatchCustomerCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrPatchCustomerCommandIsNotConstructed if validation fails.
func (c PatchCustomerCommand) Validate() error {
	return c.guard.Validate(ErrPatchCustomerCommandIsNotConstructed)
}

// OrderID returns the six-digit code of the order.
func (c PatchCustomerCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// Patch returns the partial customer update.
func (c PatchCustomerCommand) Patch() order.CustomerPatch {
	return c.patch
}

func (c *PatchCustomerCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *PatchCustomerCommand) setPatch(patch order.CustomerPatch) error {
	if patch.Name == nil && patch.Phone == nil && patch.Email == nil && patch.Notes == nil {
		return errs.NewValueIsRequiredError("patch")
	}

	c.patch = patch
	return nil
}
