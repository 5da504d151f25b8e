package commands

import (
	"context"
)

// ReconcileMirrorCommandHandler snapshots the set of known order IDs and
// schedules a mirror reconciliation over it. The store of record is the
// source of truth: reconciliation only ever deletes mirror rows, never
// resurrects orders from them.
type ReconcileMirrorCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    SideEffects
}

// NewReconcileMirrorCommandHandler creates a handler for mirror reconciliation.
func NewReconcileMirrorCommandHandler(
	uowFactory OrderUoWFactory, effects SideEffects,
) ReconcileMirrorCommandHandler {
	return ReconcileMirrorCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle processes the reconciliation command.
func (h *ReconcileMirrorCommandHandler) Handle(ctx context.Context, cmd ReconcileMirrorCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	all, err := uow.OrderRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	known := make(map[string]struct{}, len(all))
	for _, o := range all {
		id := o.ID()
		known[id.String()] = struct{}{}
	}

	h.effects.EnqueueReconcile(known)
	return nil
}
