package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrAttachTrackingCommandIsNotConstructed = errors.New(
	"AttachTrackingCommand must be created via NewAttachTrackingCommand constructor",
)

// AttachTrackingCommand represents the tracking number an operator entered
// for an order in the chat conversation, on the way to marking it shipped.
type AttachTrackingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.OrderID
	tracking kernel.TrackingNumber

	guard guard.ConstructorGuard
}

// NewAttachTrackingCommand creates a command to attach a tracking number.
func NewAttachTrackingCommand(
	orderID kernel.OrderID, tracking kernel.TrackingNumber,
) (AttachTrackingCommand, error) {
	cmd := AttachTrackingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTracking(tracking),
	); err != nil {
		return AttachTrackingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAttachTrackingCommandIsNotConstructed if validation fails.
func (c AttachTrackingCommand) Validate() error {
	return c.guard.Validate(ErrAttachTrackingCommandIsNotConstructed)
}

// OrderID returns the six-digit code of the order.
func (c AttachTrackingCommand) OrderID() kernel.OrderID {
	return c.orderID
}

// Tracking returns the fourteen-digit tracking number.
func (c AttachTrackingCommand) Tracking() kernel.TrackingNumber {
	return c.tracking
}

func (c *AttachTrackingCommand) setOrderID(orderID kernel.OrderID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AttachTrackingCommand) setTracking(tracking kernel.TrackingNumber) error {
	if err := tracking.Validate(); err != nil {
		return err
	}

	c.tracking = tracking
	return nil
}
