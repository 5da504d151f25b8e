package commands

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/order"
)

// AttachTrackingCommandHandler stores a tracking number and, when the order
// is ready, performs the shipped transition in the same transaction.
// Success is reported only after the store write committed and the mirror
// tracking update has been scheduled.
type AttachTrackingCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    SideEffects
	clock      func() time.Time
}

// NewAttachTrackingCommandHandler creates a handler for tracking attachment.
// A nil clock defaults to time.Now.
func NewAttachTrackingCommandHandler(
	uowFactory OrderUoWFactory, effects SideEffects, clock func() time.Time,
) AttachTrackingCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return AttachTrackingCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
	}
}

// Handle processes the tracking attachment command.
// The number overwrites any previously attached one while that is still
// allowed. When the order can move to shipped it does so atomically with
// the attachment; otherwise the number is stored and the outcome carries
// guidance on what blocks the shipment.
func (h *AttachTrackingCommandHandler) Handle(
	ctx context.Context, cmd AttachTrackingCommand,
) (StatusChangeOutcome, error) {
	if err := cmd.Validate(); err != nil {
		return StatusChangeOutcome{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return StatusChangeOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	loaded, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return StatusChangeOutcome{}, err
	}

	if err = loaded.AttachTracking(cmd.Tracking(), h.clock()); err != nil {
		return StatusChangeOutcome{}, err
	}

	current := loaded.Status()
	shipping := current.IsValidTransition(order.Shipped)
	if shipping {
		if err = loaded.ChangeStatus(order.Shipped, h.clock()); err != nil {
			return StatusChangeOutcome{}, err
		}
	}

	if err = orderRepo.Update(ctx, loaded); err != nil {
		return StatusChangeOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return StatusChangeOutcome{}, err
	}

	id := loaded.ID()
	h.effects.EnqueueTracking(loaded)
	if shipping {
		h.effects.EnqueueStatus(loaded)
		h.effects.EnqueueNotify(id.String(),
			fmt.Sprintf("Order %s shipped, TTN %s", id.String(), cmd.Tracking().String()),
			nextActionButtons(loaded)...)
		return StatusChangeOutcome{Changed: true}, nil
	}

	return StatusChangeOutcome{Guidance: current.Explain(order.Shipped)}, nil
}
