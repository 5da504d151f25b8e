package jobs

import (
	"fmt"
	"log/slog"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/conversation"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	conversationSweepJob *ConversationSweepJob
	mirrorReconcileJob   *MirrorReconcileJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	engine *conversation.Engine,
	reconcileHandler commands.ReconcileMirrorCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		conversationSweepJob: NewConversationSweepJob(engine, logger),
		mirrorReconcileJob:   NewMirrorReconcileJob(reconcileHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.conversationSweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start conversation sweep job: %w", err)
	}

	if err := jm.mirrorReconcileJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.conversationSweepJob.Stop()
		return fmt.Errorf("failed to start mirror reconcile job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.mirrorReconcileJob.Stop()
	jm.conversationSweepJob.Stop()
}
