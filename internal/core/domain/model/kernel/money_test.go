package kernel_test

import (
	"testing"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should create money for non-negative amounts", func(t *testing.T) {
		for _, amount := range []int64{0, 1, 2800, 1000000} {
			m, err := kernel.NewMoney(amount)

			require.NoError(t, err)
			assert.Equal(t, amount, m.Amount())
			require.NoError(t, m.Validate())
		}
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("should add amounts", func(t *testing.T) {
		a, _ := kernel.NewMoney(1400)
		b, _ := kernel.NewMoney(1400)

		assert.Equal(t, int64(2800), a.Add(b).Amount())
	})

	t.Run("should multiply by quantity", func(t *testing.T) {
		price, _ := kernel.NewMoney(700)

		assert.Equal(t, int64(2800), price.Mul(4).Amount())
	})

	t.Run("should floor subtraction at zero", func(t *testing.T) {
		total, _ := kernel.NewMoney(100)
		discount, _ := kernel.NewMoney(250)

		assert.Equal(t, int64(0), total.Sub(discount).Amount())
	})

	t.Run("arithmetic results remain valid values", func(t *testing.T) {
		a, _ := kernel.NewMoney(10)
		b, _ := kernel.NewMoney(5)

		require.NoError(t, a.Add(b).Validate())
		require.NoError(t, a.Sub(b).Validate())
		require.NoError(t, a.Mul(3).Validate())
	})
}

func TestMoney_String(t *testing.T) {
	testCases := []struct {
		amount   int64
		expected string
	}{
		{0, "0 ₴"},
		{700, "700 ₴"},
		{2800, "2 800 ₴"},
		{1234567, "1 234 567 ₴"},
	}

	for _, tc := range testCases {
		m, err := kernel.NewMoney(tc.amount)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, m.String())
	}
}

func TestMoney_Validate(t *testing.T) {
	t.Run("should reject zero value", func(t *testing.T) {
		var m kernel.Money

		err := m.Validate()

		require.Error(t, err)
		assert.Equal(t, kernel.ErrMoneyIsNotConstructed, err)
	})
}
