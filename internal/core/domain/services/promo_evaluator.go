package services

import (
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
)

// PromoRule describes a single promo code. Either Percent or Amount is set,
// never both; MinCart and ExpiresAt are optional bounds.
type PromoRule struct {
	// Percent is a percentage discount of the cart total, 1..100.
	Percent int

	// Amount is a fixed discount in whole hryvnias.
	Amount int64

	// MinCart is the minimum cart total the code applies to, zero for none.
	MinCart int64

	// ExpiresAt is the moment the code stops working, zero for never.
	ExpiresAt time.Time
}

// PromoResult is the outcome of evaluating a promo code.
type PromoResult struct {
	Valid    bool
	Discount kernel.Money
	Reason   string
}

// PromoEvaluator validates promo codes against a cart. Evaluation is a pure
// function of the code table, the clock, and the inputs; it is invoked once
// at order creation and never again for the order's lifetime.
type PromoEvaluator struct {
	rules map[string]PromoRule
	clock func() time.Time
}

// NewPromoEvaluator creates an evaluator over a fixed code table.
// Codes are matched case-insensitively. A nil clock defaults to time.Now.
func NewPromoEvaluator(rules map[string]PromoRule, clock func() time.Time) *PromoEvaluator {
	if clock == nil {
		clock = time.Now
	}
	normalized := make(map[string]PromoRule, len(rules))
	for code, rule := range rules {
		normalized[strings.ToUpper(code)] = rule
	}
	return &PromoEvaluator{
		rules: normalized,
		clock: clock,
	}
}

// Validate evaluates a promo code for a buyer's cart.
// Invalid outcomes carry a human-readable reason; the discount of an
// invalid outcome is always zero.
func (e *PromoEvaluator) Validate(code string, _ kernel.UUID, cartTotal kernel.Money) PromoResult {
	zero, _ := kernel.NewMoney(0)

	rule, ok := e.rules[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return PromoResult{Discount: zero, Reason: "unknown promo code"}
	}

	if !rule.ExpiresAt.IsZero() && e.clock().After(rule.ExpiresAt) {
		return PromoResult{Discount: zero, Reason: "promo code has expired"}
	}

	if rule.MinCart > 0 && cartTotal.Amount() < rule.MinCart {
		return PromoResult{Discount: zero, Reason: "cart total is below the promo minimum"}
	}

	var discount kernel.Money
	if rule.Percent > 0 {
		d, err := kernel.NewMoney(cartTotal.Amount() * int64(rule.Percent) / 100)
		if err != nil {
			return PromoResult{Discount: zero, Reason: "promo rule is misconfigured"}
		}
		discount = d
	} else {
		d, err := kernel.NewMoney(rule.Amount)
		if err != nil {
			return PromoResult{Discount: zero, Reason: "promo rule is misconfigured"}
		}
		discount = d
	}

	// A discount can never exceed the cart itself.
	if discount.Amount() > cartTotal.Amount() {
		discount = cartTotal
	}

	return PromoResult{Valid: true, Discount: discount}
}
