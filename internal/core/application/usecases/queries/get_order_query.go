// Package queries contains read-only operations against the store of
// record. Query handlers bypass the domain aggregates and read denormalized
// rows straight through the database connection, as the read side of the
// CQRS split.
package queries

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its lines by six-digit code.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//	fmt.Printf("Order %s is %s\n", resp.ID, resp.Status)
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.OrderID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderQueryIsNotConstructed if validation fails.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the six-digit code being looked up.
func (q GetOrderQuery) OrderID() kernel.OrderID {
	return q.orderID
}

// OrderLineResponse is one cart line of an order response.
type OrderLineResponse struct {
	ProductRef string
	Name       string
	Qty        int
	UnitPrice  int64
	LineTotal  int64
}

// GetOrderQueryResponse is the denormalized read model of a single order.
// Money amounts are whole hryvnias; Tracking is empty until attached.
type GetOrderQueryResponse struct {
	ID            string
	BuyerID       string
	Status        string
	Total         int64
	Discount      int64
	Address       string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
	Tracking      string
	Lines         []OrderLineResponse
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
