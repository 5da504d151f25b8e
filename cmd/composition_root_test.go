package cmd

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMirror struct{}

func (stubMirror) EnsureMonthTab(context.Context, time.Time) error { return nil }
func (stubMirror) Upsert(context.Context, *order.Order) error      { return nil }
func (stubMirror) UpdateStatus(context.Context, kernel.OrderID, order.Status) error {
	return nil
}
func (stubMirror) UpdateTracking(context.Context, kernel.OrderID, kernel.TrackingNumber) error {
	return nil
}
func (stubMirror) Reconcile(context.Context, map[string]struct{}) error { return nil }

func newTestRoot() CompositionRoot {
	configs := Config{
		OperatorChatID: 4242,
		FanoutDryRun:   true,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCompositionRoot(configs, nil, stubMirror{}, nil, logger)
}

func TestCompositionRoot(t *testing.T) {
	t.Run("should build every command and query handler", func(t *testing.T) {
		root := newTestRoot()
		defer root.Close()

		root.CreateCreateOrderCommandHandler()
		root.CreateChangeOrderStatusCommandHandler()
		root.CreateAttachTrackingCommandHandler()
		root.CreatePatchCustomerCommandHandler()
		root.CreateReconcileMirrorCommandHandler()
		root.CreateGetOrderQueryHandler()
		root.CreateListOrdersQueryHandler()

		assert.NotNil(t, root.Engine())
	})

	t.Run("should build handlers with a usable default clock", func(t *testing.T) {
		root := newTestRoot()
		defer root.Close()

		handler := root.CreatePatchCustomerCommandHandler()

		// A zero command is rejected before the clock or storage is
		// touched, proving the handler came back fully wired.
		_, err := handler.Handle(t.Context(), commands.PatchCustomerCommand{})
		require.ErrorIs(t, err, commands.ErrPatchCustomerCommandIsNotConstructed)
	})

	t.Run("should build the inbound adapters and jobs", func(t *testing.T) {
		root := newTestRoot()
		defer root.Close()

		assert.NotNil(t, root.CreateHTTPServer())
		assert.NotNil(t, root.CreateTelegramReceiver(nil))
		assert.NotNil(t, root.CreateJobManager())
	})
}

var _ ports.OrderMirror = stubMirror{}
