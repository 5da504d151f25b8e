package kernel

import (
	"fmt"
	"strconv"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// ErrMoneyIsNotConstructed is returned when attempting to use an improperly
// initialized Money value. Money must be created via NewMoney.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney")

// Money is an immutable value object representing a non-negative amount in
// whole hryvnias. Arithmetic stays in integers so line totals and order
// totals compare exactly, which the order invariant depends on.
//
// Example:
//
//	price, _ := kernel.NewMoney(1400)
//	total := price.Mul(2)
//	fmt.Println(total.String()) // Output: 2 800 ₴
type Money struct { //nolint:recvcheck //using for validation
	amount int64
	guard  guard.ConstructorGuard
}

// NewMoney creates a Money value. Amounts must not be negative.
func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is negative", amount))
	}
	return Money{
		amount: amount,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Amount returns the raw amount in whole hryvnias.
func (m Money) Amount() int64 {
	return m.amount
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return Money{
		amount: m.amount + other.amount,
		guard:  guard.NewConstructorGuard(),
	}
}

// Mul returns the Money value multiplied by a quantity.
func (m Money) Mul(qty int) Money {
	return Money{
		amount: m.amount * int64(qty),
		guard:  guard.NewConstructorGuard(),
	}
}

// Sub returns the difference of two Money values, floored at zero so a
// discount can never push a total negative.
func (m Money) Sub(other Money) Money {
	amount := m.amount - other.amount
	if amount < 0 {
		amount = 0
	}
	return Money{
		amount: amount,
		guard:  guard.NewConstructorGuard(),
	}
}

// IsEqual compares two Money values by amount.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount
}

// String formats the amount for staff-facing surfaces: thousands separated
// by thin spaces with the hryvnia sign, e.g. "2 800 ₴".
func (m Money) String() string {
	raw := strconv.FormatInt(m.amount, 10)
	var grouped []byte
	for i, c := range []byte(raw) {
		if i > 0 && (len(raw)-i)%3 == 0 {
			grouped = append(grouped, ' ')
		}
		grouped = append(grouped, c)
	}
	return string(grouped) + " ₴"
}

// Validate checks if the Money value was properly constructed.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
