package commands

import (
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// SideEffects is the slice of the fan-out dispatcher the write side depends
// on. Handlers enqueue side effects only after their unit of work commits,
// so the store write happens-before every mirror and chat update.
type SideEffects interface {
	EnqueueUpsert(o *order.Order)
	EnqueueStatus(o *order.Order)
	EnqueueTracking(o *order.Order)
	EnqueueNotify(orderID, text string, buttons ...[]ports.ChatButton)
	EnqueueReconcile(knownIDs map[string]struct{})
}
