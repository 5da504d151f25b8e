package jobs

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/core/domain/model/conversation"

	"github.com/robfig/cron/v3"
)

const conversationMaxIdle = 30 * time.Minute

// ConversationSweepJob drops abandoned chat flows. Runs every five minutes
// and removes per-chat conversation state idle for longer than thirty
// minutes, so a half-finished flow never blocks the operator chat forever.
type ConversationSweepJob struct {
	engine *conversation.Engine
	cron   *cron.Cron
	logger *slog.Logger
}

// NewConversationSweepJob creates the sweep job over the conversation engine.
func NewConversationSweepJob(engine *conversation.Engine, logger *slog.Logger) *ConversationSweepJob {
	return &ConversationSweepJob{
		engine: engine,
		cron:   cron.New(),
		logger: logger.With("component", "conversation_sweep_job"),
	}
}

// Start begins the sweep job, running every five minutes.
func (j *ConversationSweepJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * *", func() {
		if removed := j.engine.Sweep(conversationMaxIdle); removed > 0 {
			j.logger.Info("Swept stale conversations", "removed", removed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Conversation sweep job started (running every 5 minutes)")
	return nil
}

// Stop stops the sweep job.
func (j *ConversationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Conversation sweep job stopped")
}
