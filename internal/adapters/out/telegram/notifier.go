package telegram

import (
	"context"
	"fmt"

	"storefront/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the slice of the bot API the adapter uses. tgbotapi.BotAPI
// satisfies it; tests substitute a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Notifier delivers operator notifications to the bound chat. It performs
// a single send per call; retrying failed sends is the fan-out
// dispatcher's job.
type Notifier struct {
	api     sender
	binding *OperatorBinding
}

// NewNotifier creates a chat notifier writing to the bound operator chat.
func NewNotifier(api sender, binding *OperatorBinding) *Notifier {
	return &Notifier{api: api, binding: binding}
}

var _ ports.ChatNotifier = (*Notifier)(nil)

// NotifyOperator sends a message to the operator chat, optionally with
// inline action buttons.
func (n *Notifier) NotifyOperator(ctx context.Context, text string, buttons ...[]ports.ChatButton) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.binding.ChatID(), text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = markupFromButtons(buttons)
	}

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send operator notification: %w", err)
	}
	return nil
}
