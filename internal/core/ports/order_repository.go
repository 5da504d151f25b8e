// Package ports defines the outbound interfaces of the order pipeline.
// These interfaces establish contracts between the core and infrastructure,
// enabling dependency inversion and substitution with fakes in tests.
package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The store of record is append-and-update only: no delete operation is
// exposed, orders are never removed.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and its ID must not already exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The write is confirmed against the affected row count, guarding
	// against silent no-op updates to a missing ID.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its six-digit code.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)

	// GetAll retrieves every order in the store. Used by queries and by
	// mirror reconciliation, which needs the full set of known IDs.
	GetAll(ctx context.Context) ([]*order.Order, error)

	// ExistsID reports whether an order with the given code exists.
	// Used by the bounded collision retry during ID generation.
	ExistsID(ctx context.Context, id kernel.OrderID) (bool, error)
}
