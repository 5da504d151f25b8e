package commands

import (
	"errors"

	"storefront/internal/pkg/guard"
)

var ErrReconcileMirrorCommandIsNotConstructed = errors.New(
	"ReconcileMirrorCommand must be created via NewReconcileMirrorCommand constructor",
)

// ReconcileMirrorCommand requests a full reconciliation pass: every mirror
// row whose order is absent from the store of record gets deleted.
type ReconcileMirrorCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcileMirrorCommand creates a reconciliation command.
func NewReconcileMirrorCommand() ReconcileMirrorCommand {
	return ReconcileMirrorCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileMirrorCommandIsNotConstructed if validation fails.
func (c ReconcileMirrorCommand) Validate() error {
	return c.guard.Validate(ErrReconcileMirrorCommandIsNotConstructed)
}
