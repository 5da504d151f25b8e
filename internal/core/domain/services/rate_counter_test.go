package services_test

import (
	"testing"
	"time"

	"storefront/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
)

func TestRateCounter(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should allow attempts up to the limit", func(t *testing.T) {
		counter := services.NewRateCounter(3, time.Minute, func() time.Time { return base })

		assert.True(t, counter.Allow("buyer-1"))
		assert.True(t, counter.Allow("buyer-1"))
		assert.True(t, counter.Allow("buyer-1"))
		assert.False(t, counter.Allow("buyer-1"))
	})

	t.Run("should count keys independently", func(t *testing.T) {
		counter := services.NewRateCounter(1, time.Minute, func() time.Time { return base })

		assert.True(t, counter.Allow("buyer-1"))
		assert.False(t, counter.Allow("buyer-1"))
		assert.True(t, counter.Allow("buyer-2"))
	})

	t.Run("should forget attempts older than the window", func(t *testing.T) {
		now := base
		counter := services.NewRateCounter(2, time.Minute, func() time.Time { return now })

		assert.True(t, counter.Allow("buyer-1"))
		assert.True(t, counter.Allow("buyer-1"))
		assert.False(t, counter.Allow("buyer-1"))

		now = base.Add(61 * time.Second)
		assert.True(t, counter.Allow("buyer-1"))
	})

	t.Run("should slide rather than reset the window", func(t *testing.T) {
		now := base
		counter := services.NewRateCounter(2, time.Minute, func() time.Time { return now })

		assert.True(t, counter.Allow("buyer-1"))

		now = base.Add(40 * time.Second)
		assert.True(t, counter.Allow("buyer-1"))
		assert.False(t, counter.Allow("buyer-1"))

		// The first attempt ages out, the second is still in the window.
		now = base.Add(70 * time.Second)
		assert.True(t, counter.Allow("buyer-1"))
		assert.False(t, counter.Allow("buyer-1"))
	})

	t.Run("should not count rejected attempts", func(t *testing.T) {
		now := base
		counter := services.NewRateCounter(1, time.Minute, func() time.Time { return now })

		assert.True(t, counter.Allow("buyer-1"))
		for range 5 {
			assert.False(t, counter.Allow("buyer-1"))
		}

		// Only the single allowed attempt occupies the window.
		now = base.Add(61 * time.Second)
		assert.True(t, counter.Allow("buyer-1"))
	})
}
