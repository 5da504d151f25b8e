package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// maxOrderIDAttempts bounds the retry loop for order ID generation.
// The six-digit space is large enough that hitting the bound means the
// store is effectively full, not unlucky.
const maxOrderIDAttempts = 5

var (
	// ErrOrderIDSpaceExhausted is returned when ID generation keeps
	// colliding with existing orders.
	ErrOrderIDSpaceExhausted = errors.New("could not generate a unique order id")

	// ErrTooManyPromoAttempts is returned when a buyer exceeds the promo
	// validation rate limit.
	ErrTooManyPromoAttempts = errors.New("too many promo code attempts, try again later")
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Creates orders in "pending" status, applying the promo code once at
// creation, and fans the new order out to the mirror and the operator chat.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, promo, promoRate, effects)
//	orderID, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	fmt.Printf("Order %s created and awaiting confirmation", orderID)
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	promo      *services.PromoEvaluator
	promoRate  *services.RateCounter
	effects    SideEffects
	clock      func() time.Time
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// A nil clock defaults to time.Now.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	promo *services.PromoEvaluator,
	promoRate *services.RateCounter,
	effects SideEffects,
	clock func() time.Time,
) CreateOrderCommandHandler {
	if clock == nil {
		clock = time.Now
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		promo:      promo,
		promoRate:  promoRate,
		effects:    effects,
		clock:      clock,
	}
}

// Handle processes the order creation command.
// Evaluates the promo code (at most once, rate limited per buyer), generates
// a unique six-digit order ID with a bounded collision retry, persists the
// order in a transaction, and only after commit enqueues the mirror upsert,
// the operator notification and a mirror reconciliation pass.
// Returns the generated order ID.
func (h *CreateOrderCommandHandler) Handle(
	ctx context.Context, cmd CreateOrderCommand,
) (kernel.OrderID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.OrderID{}, err
	}

	discount, err := h.evaluatePromo(cmd)
	if err != nil {
		return kernel.OrderID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.OrderID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	orderID, err := h.generateFreeOrderID(ctx, orderRepo)
	if err != nil {
		return kernel.OrderID{}, err
	}

	newOrder, err := order.NewOrder(
		orderID,
		cmd.BuyerID(),
		cmd.Lines(),
		cmd.DeclaredTotal(),
		discount,
		cmd.Address(),
		cmd.CustomerName(),
		cmd.CustomerPhone(),
		cmd.CustomerEmail(),
		cmd.Notes(),
		h.clock(),
	)
	if err != nil {
		return kernel.OrderID{}, err
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return kernel.OrderID{}, err
	}

	knownIDs, err := h.collectKnownIDs(ctx, orderRepo)
	if err != nil {
		return kernel.OrderID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.OrderID{}, err
	}

	h.effects.EnqueueUpsert(newOrder)
	h.effects.EnqueueNotify(orderID.String(), renderNewOrderMessage(newOrder), newOrderButtons(orderID))
	h.effects.EnqueueReconcile(knownIDs)

	return orderID, nil
}

// evaluatePromo applies the promo code once, before anything is persisted.
// The discount of an order is decided here for its whole lifetime.
func (h *CreateOrderCommandHandler) evaluatePromo(cmd CreateOrderCommand) (kernel.Money, error) {
	discount, err := kernel.NewMoney(0)
	if err != nil {
		return kernel.Money{}, err
	}

	if cmd.PromoCode() == "" {
		return discount, nil
	}

	if !h.promoRate.Allow(cmd.BuyerID().String()) {
		return kernel.Money{}, ErrTooManyPromoAttempts
	}

	cartTotal := discount
	for _, line := range cmd.Lines() {
		cartTotal = cartTotal.Add(line.LineTotal())
	}

	result := h.promo.Validate(cmd.PromoCode(), cmd.BuyerID(), cartTotal)
	if !result.Valid {
		return kernel.Money{}, errs.NewValueIsInvalidErrorWithCause("promoCode", errors.New(result.Reason))
	}

	return result.Discount, nil
}

func (h *CreateOrderCommandHandler) generateFreeOrderID(
	ctx context.Context, repo ports.OrderRepository,
) (kernel.OrderID, error) {
	for range maxOrderIDAttempts {
		candidate := kernel.GenerateOrderID()

		taken, err := repo.ExistsID(ctx, candidate)
		if err != nil {
			return kernel.OrderID{}, err
		}
		if !taken {
			return candidate, nil
		}
	}

	return kernel.OrderID{}, ErrOrderIDSpaceExhausted
}

// collectKnownIDs snapshots every order ID inside the transaction so the
// post-commit reconciliation pass sees the order that was just added.
func (h *CreateOrderCommandHandler) collectKnownIDs(
	ctx context.Context, repo ports.OrderRepository,
) (map[string]struct{}, error) {
	all, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(all))
	for _, o := range all {
		id := o.ID()
		known[id.String()] = struct{}{}
	}
	return known, nil
}

func renderNewOrderMessage(o *order.Order) string {
	id := o.ID()
	msg := fmt.Sprintf("New order %s\n%s, %s\n", id.String(), o.CustomerName(), o.CustomerPhone())
	for _, line := range o.Lines() {
		msg += fmt.Sprintf("• %s — %s\n", line.String(), line.LineTotal().String())
	}
	discount := o.Discount()
	if discount.Amount() > 0 {
		msg += fmt.Sprintf("Discount: %s\n", discount.String())
	}
	msg += fmt.Sprintf("Total: %s\n%s", o.Total().String(), o.Address().String())
	return msg
}

func newOrderButtons(id kernel.OrderID) []ports.ChatButton {
	return []ports.ChatButton{
		{Label: "✅ Confirm", Data: "confirm_" + id.String()},
		{Label: "❌ Cancel", Data: "cancel_" + id.String()},
	}
}
