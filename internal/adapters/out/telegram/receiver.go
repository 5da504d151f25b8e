package telegram

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const longPollTimeoutSeconds = 30

// Receiver runs the long-poll update loop and feeds every update through
// the router. One Receiver per bot; Start is not restartable after Stop.
type Receiver struct {
	api    *tgbotapi.BotAPI
	router *Router
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewReceiver creates an update receiver for the bot.
func NewReceiver(api *tgbotapi.BotAPI, router *Router, logger *slog.Logger) *Receiver {
	return &Receiver{
		api:    api,
		router: router,
		logger: logger.With("component", "telegram_receiver"),
	}
}

// Start begins consuming updates in a background goroutine.
func (r *Receiver) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = longPollTimeoutSeconds
	updates := r.api.GetUpdatesChan(cfg)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.logger.Info("telegram receiver started", "bot", r.api.Self.UserName)
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				r.router.HandleUpdate(ctx, update)
			}
		}
	}()
}

// Stop halts the update loop and waits for the in-flight update to finish.
func (r *Receiver) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.api.StopReceivingUpdates()
	r.wg.Wait()
	r.logger.Info("telegram receiver stopped")
}
