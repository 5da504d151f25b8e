package commands_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// fakeOrderRepo is a stateful in-memory repository. ExistsID answers from
// the queued results first, so collision-retry tests can script them.
type fakeOrderRepo struct {
	orders        map[string]*order.Order
	existsResults []bool
	addErr        error
	updateErr     error
	updateCalls   int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*order.Order)}
}

func (r *fakeOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	if r.addErr != nil {
		return r.addErr
	}
	id := aggregate.ID()
	r.orders[id.String()] = aggregate
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	id := aggregate.ID()
	if _, ok := r.orders[id.String()]; !ok {
		return errs.NewObjectNotFoundError("orderID", id.String())
	}
	r.orders[id.String()] = aggregate
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	o, ok := r.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id.String())
	}
	return o, nil
}

func (r *fakeOrderRepo) GetAll(_ context.Context) ([]*order.Order, error) {
	all := make([]*order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		all = append(all, o)
	}
	return all, nil
}

func (r *fakeOrderRepo) ExistsID(_ context.Context, id kernel.OrderID) (bool, error) {
	if len(r.existsResults) > 0 {
		result := r.existsResults[0]
		r.existsResults = r.existsResults[1:]
		return result, nil
	}
	_, ok := r.orders[id.String()]
	return ok, nil
}

type fakeOrderUoW struct {
	repo       *fakeOrderRepo
	begun      int
	committed  int
	rolledBack int
}

func (u *fakeOrderUoW) Begin(_ context.Context) error    { u.begun++; return nil }
func (u *fakeOrderUoW) Commit(_ context.Context) error   { u.committed++; return nil }
func (u *fakeOrderUoW) Rollback(_ context.Context) error { u.rolledBack++; return nil }

func (u *fakeOrderUoW) OrderRepository() ports.OrderRepository { return u.repo }

type fakeUoWFactory struct {
	uow *fakeOrderUoW
}

func (f *fakeUoWFactory) Create() commands.OrderUoW { return f.uow }

type notification struct {
	orderID string
	text    string
	buttons [][]ports.ChatButton
}

// fakeSideEffects records enqueued fan-out work without executing any of it.
type fakeSideEffects struct {
	upserts    []*order.Order
	statuses   []*order.Order
	trackings  []*order.Order
	notifies   []notification
	reconciles []map[string]struct{}
}

func (e *fakeSideEffects) EnqueueUpsert(o *order.Order)   { e.upserts = append(e.upserts, o) }
func (e *fakeSideEffects) EnqueueStatus(o *order.Order)   { e.statuses = append(e.statuses, o) }
func (e *fakeSideEffects) EnqueueTracking(o *order.Order) { e.trackings = append(e.trackings, o) }

func (e *fakeSideEffects) EnqueueNotify(orderID, text string, buttons ...[]ports.ChatButton) {
	e.notifies = append(e.notifies, notification{orderID: orderID, text: text, buttons: buttons})
}

func (e *fakeSideEffects) EnqueueReconcile(knownIDs map[string]struct{}) {
	e.reconciles = append(e.reconciles, knownIDs)
}

func mustMoney(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount)
	require.NoError(t, err)
	return m
}

func mustOrderID(t *testing.T, code string) kernel.OrderID {
	t.Helper()
	id, err := kernel.OrderIDFromString(code)
	require.NoError(t, err)
	return id
}

func mustTracking(t *testing.T, digits string) kernel.TrackingNumber {
	t.Helper()
	tn, err := kernel.TrackingNumberFromString(digits)
	require.NoError(t, err)
	return tn
}

func testLines(t *testing.T) []order.Line {
	t.Helper()
	mug, err := order.NewLine("SKU-101", "Ceramic mug", 2, mustMoney(t, 700))
	require.NoError(t, err)
	plate, err := order.NewLine("SKU-205", "Dinner plate", 1, mustMoney(t, 1400))
	require.NoError(t, err)
	return []order.Line{mug, plate}
}

func testAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewPickupPointAddress("Nova Poshta", 52)
	require.NoError(t, err)
	return addr
}

func storedOrder(t *testing.T, repo *fakeOrderRepo, code string, status order.Status) *order.Order {
	t.Helper()

	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	o, err := order.NewOrder(
		mustOrderID(t, code),
		kernel.NewUUID(),
		testLines(t),
		mustMoney(t, 2800),
		mustMoney(t, 0),
		testAddress(t),
		"Olena Kovalenko",
		"+380671234567",
		"olena@example.com",
		"",
		now,
	)
	require.NoError(t, err)

	if status == order.Confirmed || status == order.Shipped || status == order.Delivered {
		require.NoError(t, o.ChangeStatus(order.Confirmed, now))
	}
	if status == order.Shipped || status == order.Delivered {
		require.NoError(t, o.AttachTracking(mustTracking(t, "20450123456789"), now))
		require.NoError(t, o.ChangeStatus(order.Shipped, now))
	}
	if status == order.Delivered {
		require.NoError(t, o.ChangeStatus(order.Delivered, now))
	}
	if status == order.Cancelled {
		require.NoError(t, o.ChangeStatus(order.Cancelled, now))
	}

	require.NoError(t, repo.Add(t.Context(), o))
	return o
}
