package fanout_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"testing"
	"time"

	"storefront/internal/core/application/fanout"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMirror struct {
	mu             sync.Mutex
	upsertCalls    int
	statusCalls    int
	trackingCalls  int
	reconcileCalls int
	failFirstN     int
	alwaysFail     bool
}

func (m *fakeMirror) fail() error {
	if m.alwaysFail {
		return errors.New("mirror unavailable")
	}
	if m.failFirstN > 0 {
		m.failFirstN--
		return errors.New("mirror unavailable")
	}
	return nil
}

func (m *fakeMirror) EnsureMonthTab(_ context.Context, _ time.Time) error {
	return nil
}

func (m *fakeMirror) Upsert(_ context.Context, _ *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCalls++
	return m.fail()
}

func (m *fakeMirror) UpdateStatus(_ context.Context, _ kernel.OrderID, _ order.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusCalls++
	return m.fail()
}

func (m *fakeMirror) UpdateTracking(_ context.Context, _ kernel.OrderID, _ kernel.TrackingNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackingCalls++
	return m.fail()
}

func (m *fakeMirror) Reconcile(_ context.Context, _ map[string]struct{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconcileCalls++
	return m.fail()
}

func (m *fakeMirror) counts() (upserts, statuses, trackings, reconciles int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCalls, m.statusCalls, m.trackingCalls, m.reconcileCalls
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) NotifyOperator(_ context.Context, text string, _ ...[]ports.ChatButton) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()

	id, err := kernel.OrderIDFromString("482913")
	require.NoError(t, err)
	price, err := kernel.NewMoney(700)
	require.NoError(t, err)
	total, err := kernel.NewMoney(1400)
	require.NoError(t, err)
	zero, err := kernel.NewMoney(0)
	require.NoError(t, err)
	line, err := order.NewLine("SKU-101", "Ceramic mug", 2, price)
	require.NoError(t, err)
	addr, err := kernel.NewPickupPointAddress("Nova Poshta", 52)
	require.NoError(t, err)

	o, err := order.NewOrder(
		id, kernel.NewUUID(), []order.Line{line}, total, zero, addr,
		"Olena Kovalenko", "+380671234567", "olena@example.com", "",
		time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return o
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher(t *testing.T) {
	t.Run("should execute upsert and notify tasks", func(t *testing.T) {
		mirror := &fakeMirror{}
		notifier := &fakeNotifier{}
		d := fanout.NewDispatcher(mirror, notifier, fanout.Live, quietLogger())
		defer d.Close()

		d.EnqueueUpsert(testOrder(t))
		d.EnqueueNotify("482913", "New order 482913")

		require.Eventually(t, func() bool {
			upserts, _, _, _ := mirror.counts()
			return upserts == 1 && len(notifier.sent()) == 1
		}, time.Second, 5*time.Millisecond)
		assert.Equal(t, []string{"New order 482913"}, notifier.sent())
	})

	t.Run("should retry a failed task exactly once", func(t *testing.T) {
		mirror := &fakeMirror{failFirstN: 1}
		d := fanout.NewDispatcher(mirror, &fakeNotifier{}, fanout.Live, quietLogger(),
			fanout.WithRetryDelay(10*time.Millisecond))
		defer d.Close()

		d.EnqueueStatus(testOrder(t))

		require.Eventually(t, func() bool {
			_, statuses, _, _ := mirror.counts()
			return statuses == 2
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("should drop a task after the second failure", func(t *testing.T) {
		mirror := &fakeMirror{alwaysFail: true}
		d := fanout.NewDispatcher(mirror, &fakeNotifier{}, fanout.Live, quietLogger(),
			fanout.WithRetryDelay(10*time.Millisecond))
		defer d.Close()

		d.EnqueueReconcile(map[string]struct{}{"482913": {}})

		require.Eventually(t, func() bool {
			_, _, _, reconciles := mirror.counts()
			return reconciles == 2
		}, time.Second, 5*time.Millisecond)

		// Give a would-be third attempt time to fire, then confirm it never did.
		time.Sleep(50 * time.Millisecond)
		_, _, _, reconciles := mirror.counts()
		assert.Equal(t, 2, reconciles)
	})

	t.Run("should abandon a pending retry on close", func(t *testing.T) {
		mirror := &fakeMirror{alwaysFail: true}
		d := fanout.NewDispatcher(mirror, &fakeNotifier{}, fanout.Live, quietLogger(),
			fanout.WithRetryDelay(30*time.Millisecond))

		d.EnqueueStatus(testOrder(t))

		require.Eventually(t, func() bool {
			_, statuses, _, _ := mirror.counts()
			return statuses == 1
		}, time.Second, 5*time.Millisecond)

		d.Close()

		time.Sleep(60 * time.Millisecond)
		_, statuses, _, _ := mirror.counts()
		assert.Equal(t, 1, statuses, "retry scheduled before close must not run")
	})

	t.Run("should not accumulate goroutines while retries are pending", func(t *testing.T) {
		mirror := &fakeMirror{alwaysFail: true}
		d := fanout.NewDispatcher(mirror, &fakeNotifier{}, fanout.Live, quietLogger(),
			fanout.WithRetryDelay(time.Hour))
		defer d.Close()

		baseline := runtime.NumGoroutine()
		o := testOrder(t)
		for range 20 {
			d.EnqueueStatus(o)
		}

		require.Eventually(t, func() bool {
			_, statuses, _, _ := mirror.counts()
			return statuses == 20
		}, time.Second, 5*time.Millisecond)

		// One failed attempt per task leaves only its timer behind.
		assert.Eventually(t, func() bool {
			return runtime.NumGoroutine() <= baseline+2
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("should skip tracking task when order has no tracking number", func(t *testing.T) {
		mirror := &fakeMirror{}
		d := fanout.NewDispatcher(mirror, &fakeNotifier{}, fanout.Live, quietLogger())
		defer d.Close()

		d.EnqueueTracking(testOrder(t))

		time.Sleep(20 * time.Millisecond)
		_, _, trackings, _ := mirror.counts()
		assert.Zero(t, trackings)
	})

	t.Run("should perform no transport calls in dry run", func(t *testing.T) {
		mirror := &fakeMirror{}
		notifier := &fakeNotifier{}
		d := fanout.NewDispatcher(mirror, notifier, fanout.DryRun, quietLogger())
		defer d.Close()

		d.EnqueueUpsert(testOrder(t))
		d.EnqueueStatus(testOrder(t))
		d.EnqueueNotify("482913", "New order 482913")

		time.Sleep(30 * time.Millisecond)
		upserts, statuses, trackings, reconciles := mirror.counts()
		assert.Zero(t, upserts+statuses+trackings+reconciles)
		assert.Empty(t, notifier.sent())
	})
}
