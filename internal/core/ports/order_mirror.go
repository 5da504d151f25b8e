package ports

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderMirror is the contract of the staff-facing spreadsheet copy of the
// order book. The mirror is always derived state: it never creates orders,
// and reconciliation only ever deletes rows whose order is gone from the
// store of record.
//
// Implementations do not retry. Retry scheduling belongs to the fan-out
// dispatcher, where it is observable and testable independently of the
// transport.
type OrderMirror interface {
	// EnsureMonthTab makes sure the tab for the month of date exists,
	// creating headers and column layout only the first time. Idempotent.
	EnsureMonthTab(ctx context.Context, date time.Time) error

	// Upsert writes the order's denormalized row, locating an existing row
	// by order ID across all tabs and appending to the month tab when none
	// is found. Calling it twice for the same order never yields two rows.
	Upsert(ctx context.Context, o *order.Order) error

	// UpdateStatus rewrites the status cell of the order's row.
	UpdateStatus(ctx context.Context, id kernel.OrderID, status order.Status) error

	// UpdateTracking rewrites the tracking-number cell of the order's row.
	UpdateTracking(ctx context.Context, id kernel.OrderID, tn kernel.TrackingNumber) error

	// Reconcile scans every tab and deletes rows whose order ID is absent
	// from knownIDs. Rows are deleted from the highest index downward so
	// earlier deletions cannot invalidate later indices.
	Reconcile(ctx context.Context, knownIDs map[string]struct{}) error
}
