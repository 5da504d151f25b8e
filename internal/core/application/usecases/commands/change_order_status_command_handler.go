package commands

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// StatusChangeOutcome reports the result of a status change request.
// A rejected transition is not an error: nothing was mutated and Guidance
// carries the operator-facing text explaining what to do instead.
type StatusChangeOutcome struct {
	Changed  bool
	Guidance string
}

// ChangeOrderStatusCommandHandler handles order lifecycle transitions.
// Enforces the status state machine, persists accepted transitions, and
// fans the change out to the mirror and the operator chat.
//
// Example:
//
//	handler := NewChangeOrderStatusCommandHandler(uowFactory, effects, nil)
//	outcome, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	if !outcome.Changed {
//	    fmt.Println(outcome.Guidance) // e.g. "confirm the order before shipping it"
//	}
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    SideEffects
	clock      func() time.Time
}

// NewChangeOrderStatusCommandHandler creates a handler for status changes.
// A nil clock defaults to time.Now.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory, effects SideEffects, clock func() time.Time,
) ChangeOrderStatusCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
	}
}

// Handle processes the status change command.
// Illegal transitions, including self-transitions, are rejected before any
// write and reported through the outcome's Guidance. Accepted transitions
// are committed first; only then are the mirror status update and the chat
// confirmation enqueued.
func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context, cmd ChangeOrderStatusCommand,
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

	current := loaded.Status()
	if !current.IsValidTransition(cmd.Target()) {
		return StatusChangeOutcome{Guidance: current.Explain(cmd.Target())}, nil
	}

	if err = loaded.ChangeStatus(cmd.Target(), h.clock()); err != nil {
		return StatusChangeOutcome{}, err
	}

	if err = orderRepo.Update(ctx, loaded); err != nil {
		return StatusChangeOutcome{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return StatusChangeOutcome{}, err
	}

	id := loaded.ID()
	h.effects.EnqueueStatus(loaded)
	h.effects.EnqueueNotify(id.String(), renderStatusMessage(loaded), nextActionButtons(loaded)...)

	return StatusChangeOutcome{Changed: true}, nil
}

func renderStatusMessage(o *order.Order) string {
	id := o.ID()
	return fmt.Sprintf("Order %s: %s", id.String(), o.Status().Label())
}

// nextActionButtons offers the follow-up action for the order's new
// status, so the operator can drive the lifecycle without typing.
func nextActionButtons(o *order.Order) [][]ports.ChatButton {
	id := o.ID()
	switch o.Status() {
	case order.Confirmed:
		return [][]ports.ChatButton{{
			{Label: "📦 Ship", Data: "ship_" + id.String()},
			{Label: "❌ Cancel", Data: "cancel_" + id.String()},
		}}
	case order.Shipped:
		return [][]ports.ChatButton{{
			{Label: "🏁 Delivered", Data: "deliver_" + id.String()},
		}}
	default:
		return nil
	}
}
