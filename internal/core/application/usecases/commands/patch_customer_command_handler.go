package commands

import (
	"context"
	"time"
)

// PatchCustomerCommandHandler applies partial customer updates to an order.
type PatchCustomerCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    SideEffects
	clock      func() time.Time
}

// NewPatchCustomerCommandHandler creates a handler for customer patches.
// A nil clock defaults to time.Now.
func NewPatchCustomerCommandHandler(
	uowFactory OrderUoWFactory, effects SideEffects, clock func() time.Time,
) PatchCustomerCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return PatchCustomerCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
		clock:      clock,
	}
}

// Handle processes the patch command. Returns whether anything changed;
// a patch that matches the stored values writes nothing and schedules no
// side effects. A missing order surfaces as the repository's not-found
// error.
func (h *PatchCustomerCommandHandler) Handle(
	ctx context.Context, cmd PatchCustomerCommand,
) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	loaded, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}

	if !loaded.PatchCustomer(cmd.Patch(), h.clock()) {
		return false, nil
	}

	if err = orderRepo.Update(ctx, loaded); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.effects.EnqueueUpsert(loaded)

	return true, nil
}
