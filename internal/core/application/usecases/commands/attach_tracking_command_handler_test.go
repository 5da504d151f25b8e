package commands_test

import (
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackingHandler(repo *fakeOrderRepo, effects *fakeSideEffects) (commands.AttachTrackingCommandHandler, *fakeOrderUoW) {
	uow := &fakeOrderUoW{repo: repo}
	handler := commands.NewAttachTrackingCommandHandler(&fakeUoWFactory{uow: uow}, effects, fixedClock)
	return handler, uow
}

func TestAttachTrackingCommandHandler_Handle_ShipsConfirmedOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	effects := &fakeSideEffects{}
	stored := storedOrder(t, repo, "482913", order.Confirmed)
	handler, uow := newTrackingHandler(repo, effects)

	cmd, err := commands.NewAttachTrackingCommand(stored.ID(), mustTracking(t, "20450987654321"))
	require.NoError(t, err)

	outcome, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, order.Shipped, stored.Status())
	require.NotNil(t, stored.Tracking())
	assert.Equal(t, "20450987654321", stored.Tracking().String())
	assert.Equal(t, 1, uow.committed)

	require.Len(t, effects.trackings, 1)
	require.Len(t, effects.statuses, 1)
	require.Len(t, effects.notifies, 1)
	assert.Contains(t, effects.notifies[0].text, "Order 482913 shipped, TTN 20450987654321")
}

func TestAttachTrackingCommandHandler_Handle_PendingOrderStoresNumber(t *testing.T) {
	repo := newFakeOrderRepo()
	effects := &fakeSideEffects{}
	stored := storedOrder(t, repo, "482913", order.Pending)
	handler, uow := newTrackingHandler(repo, effects)

	cmd, err := commands.NewAttachTrackingCommand(stored.ID(), mustTracking(t, "20450987654321"))
	require.NoError(t, err)

	outcome, err := handler.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	assert.Equal(t, "confirm the order before shipping it", outcome.Guidance)
	assert.Equal(t, order.Pending, stored.Status())
	require.NotNil(t, stored.Tracking())
	assert.Equal(t, 1, uow.committed, "the number itself is persisted")

	require.Len(t, effects.trackings, 1)
	assert.Empty(t, effects.statuses)
	assert.Empty(t, effects.notifies)
}

func TestAttachTrackingCommandHandler_Handle_OverwriteBeforeShipping(t *testing.T) {
	repo := newFakeOrderRepo()
	stored := storedOrder(t, repo, "482913", order.Pending)
	handler, _ := newTrackingHandler(repo, &fakeSideEffects{})

	first, err := commands.NewAttachTrackingCommand(stored.ID(), mustTracking(t, "20450987654321"))
	require.NoError(t, err)
	_, err = handler.Handle(t.Context(), first)
	require.NoError(t, err)

	second, err := commands.NewAttachTrackingCommand(stored.ID(), mustTracking(t, "20450123456789"))
	require.NoError(t, err)
	_, err = handler.Handle(t.Context(), second)
	require.NoError(t, err)

	require.NotNil(t, stored.Tracking())
	assert.Equal(t, "20450123456789", stored.Tracking().String())
}

func TestAttachTrackingCommandHandler_Handle_ShippedOrderIsFixed(t *testing.T) {
	repo := newFakeOrderRepo()
	effects := &fakeSideEffects{}
	stored := storedOrder(t, repo, "482913", order.Shipped)
	handler, uow := newTrackingHandler(repo, effects)

	cmd, err := commands.NewAttachTrackingCommand(stored.ID(), mustTracking(t, "20450987654321"))
	require.NoError(t, err)

	_, err = handler.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, order.ErrTrackingIsFixed)
	assert.Equal(t, "20450123456789", stored.Tracking().String(), "original number unchanged")
	assert.Zero(t, uow.committed)
	assert.Empty(t, effects.trackings)
}
