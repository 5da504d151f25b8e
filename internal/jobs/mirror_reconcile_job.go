package jobs

import (
	"context"
	"log/slog"

	"storefront/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// MirrorReconcileJob schedules a full spreadsheet reconciliation every hour.
// Creation already triggers a reconcile pass, but that pass can be lost when
// its fan-out task exhausts the retry; the hourly sweep is the backstop that
// makes manual spreadsheet edits and dropped tasks self-heal.
type MirrorReconcileJob struct {
	handler commands.ReconcileMirrorCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewMirrorReconcileJob creates the hourly reconcile job.
func NewMirrorReconcileJob(handler commands.ReconcileMirrorCommandHandler, logger *slog.Logger) *MirrorReconcileJob {
	return &MirrorReconcileJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "mirror_reconcile_job"),
	}
}

// Start begins the reconcile job, running at the top of every hour.
func (j *MirrorReconcileJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewReconcileMirrorCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Mirror reconcile job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Mirror reconcile job started (running hourly)")
	return nil
}

// Stop stops the reconcile job.
func (j *MirrorReconcileJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Mirror reconcile job stopped")
}
