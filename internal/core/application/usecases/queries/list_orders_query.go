package queries

import (
	"errors"
	"time"

	"storefront/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery retrieves every order as flat rows, newest first.
// Lines are not loaded; use GetOrderQuery for the full picture of one order.
//
// Example:
//
//	query := NewListOrdersQuery()
//	rows, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
//	fmt.Printf("%d orders on file\n", len(rows))
type ListOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a parameterless query over all orders.
func NewListOrdersQuery() ListOrdersQuery {
	return ListOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrListOrdersQueryIsNotConstructed if validation fails.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// ListOrdersQueryResponse is one flat order row of the listing.
type ListOrdersQueryResponse struct {
	ID            string
	Status        string
	Total         int64
	CustomerName  string
	CustomerPhone string
	Tracking      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
