// Package fanout propagates committed order changes to the spreadsheet
// mirror and the operator chat asynchronously. Store writes always complete
// before any task for them is enqueued, so the store of record stays the
// source of truth and the side channels converge toward it.
package fanout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// Mode selects whether the dispatcher talks to real transports.
type Mode int

const (
	// Live executes tasks against the configured mirror and chat channel.
	Live Mode = iota

	// DryRun logs every would-be side effect and performs none of them.
	// Used for local runs against the production database.
	DryRun
)

const (
	defaultQueueSize  = 256
	defaultRetryDelay = 5 * time.Second
	maxAttempts       = 2
)

// Dispatcher executes side-effect tasks on a single worker goroutine.
// Each failed task is retried exactly once after a fixed delay; a second
// failure is logged and the task is dropped. Callers never wait for a task.
type Dispatcher struct {
	mirror     ports.OrderMirror
	notifier   ports.ChatNotifier
	mode       Mode
	retryDelay time.Duration
	logger     *slog.Logger

	queue chan Task
	done  chan struct{}
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRetryDelay overrides the delay before a task's single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(disp *Dispatcher) {
		disp.retryDelay = d
	}
}

// WithQueueSize overrides the bounded queue capacity.
func WithQueueSize(n int) Option {
	return func(disp *Dispatcher) {
		disp.queue = make(chan Task, n)
	}
}

// NewDispatcher creates a dispatcher over the given transports and starts
// its worker goroutine. Call Close to drain and stop it.
func NewDispatcher(
	mirror ports.OrderMirror,
	notifier ports.ChatNotifier,
	mode Mode,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		mirror:     mirror,
		notifier:   notifier,
		mode:       mode,
		retryDelay: defaultRetryDelay,
		logger:     logger.With("component", "fanout_dispatcher"),
		queue:      make(chan Task, defaultQueueSize),
		done:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Close stops accepting new tasks and waits for in-flight ones to finish.
// Pending retries that have not fired yet are abandoned.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
		d.wg.Wait()
	})
}

// EnqueueUpsert schedules a full mirror row write for the order, creating
// the month tab for its creation date when needed.
func (d *Dispatcher) EnqueueUpsert(o *order.Order) {
	id := o.ID()
	createdAt := o.CreatedAt()
	snapshot := o

	d.enqueue(Task{
		Name:    "mirror_upsert",
		OrderID: id.String(),
		Run: func(ctx context.Context) error {
			if err := d.mirror.EnsureMonthTab(ctx, createdAt); err != nil {
				return err
			}
			return d.mirror.Upsert(ctx, snapshot)
		},
	})
}

// EnqueueStatus schedules a mirror status-cell update for the order.
func (d *Dispatcher) EnqueueStatus(o *order.Order) {
	id := o.ID()
	status := o.Status()

	d.enqueue(Task{
		Name:    "mirror_status",
		OrderID: id.String(),
		Run: func(ctx context.Context) error {
			return d.mirror.UpdateStatus(ctx, id, status)
		},
	})
}

// EnqueueTracking schedules a mirror tracking-cell update for the order.
// Orders without a tracking number are skipped.
func (d *Dispatcher) EnqueueTracking(o *order.Order) {
	id := o.ID()
	tn := o.Tracking()
	if tn == nil {
		return
	}
	tracking := *tn

	d.enqueue(Task{
		Name:    "mirror_tracking",
		OrderID: id.String(),
		Run: func(ctx context.Context) error {
			return d.mirror.UpdateTracking(ctx, id, tracking)
		},
	})
}

// EnqueueNotify schedules an operator chat message with optional inline
// button rows.
func (d *Dispatcher) EnqueueNotify(orderID, text string, buttons ...[]ports.ChatButton) {
	d.enqueue(Task{
		Name:    "chat_notify",
		OrderID: orderID,
		Run: func(ctx context.Context) error {
			return d.notifier.NotifyOperator(ctx, text, buttons...)
		},
	})
}

// EnqueueReconcile schedules a full mirror reconciliation against the
// given set of store order IDs.
func (d *Dispatcher) EnqueueReconcile(knownIDs map[string]struct{}) {
	d.enqueue(Task{
		Name: "mirror_reconcile",
		Run: func(ctx context.Context) error {
			return d.mirror.Reconcile(ctx, knownIDs)
		},
	})
}

func (d *Dispatcher) enqueue(task Task) {
	if d.mode == DryRun {
		d.logger.Info("dry run, skipping side effect", "task", task.Name, "order_id", task.OrderID)
		return
	}

	select {
	case <-d.done:
		d.logger.Warn("dispatcher closed, dropping task", "task", task.Name, "order_id", task.OrderID)
	case d.queue <- task:
	default:
		d.logger.Error("fanout queue full, dropping task", "task", task.Name, "order_id", task.OrderID)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	ctx := context.Background()
	for {
		select {
		case <-d.done:
			return
		case task := <-d.queue:
			d.execute(ctx, task)
		}
	}
}

func (d *Dispatcher) execute(ctx context.Context, task Task) {
	task.Attempts++
	err := task.Run(ctx)
	if err == nil {
		return
	}

	if task.Attempts >= maxAttempts {
		d.logger.ErrorContext(ctx, "fanout task failed after retry, dropping",
			"task", task.Name, "order_id", task.OrderID, "error", err)
		return
	}

	d.logger.WarnContext(ctx, fmt.Sprintf("fanout task failed, retrying in %s", d.retryDelay),
		"task", task.Name, "order_id", task.OrderID, "error", err)

	// The re-enqueue checks done itself, so a retry scheduled before Close
	// is abandoned when it fires without any watcher goroutine per task.
	retry := task
	time.AfterFunc(d.retryDelay, func() {
		select {
		case <-d.done:
		case d.queue <- retry:
		default:
			d.logger.Error("fanout queue full, dropping retry", "task", retry.Name, "order_id", retry.OrderID)
		}
	})
}
