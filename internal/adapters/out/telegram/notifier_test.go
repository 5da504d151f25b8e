package telegram

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSender struct {
	err error
}

func (s *failingSender) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, s.err
}

func (s *failingSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return nil, s.err
}

func TestNotifier(t *testing.T) {
	t.Run("should send to the bound operator chat", func(t *testing.T) {
		sender := &fakeSender{}
		notifier := NewNotifier(sender, NewOperatorBinding(operatorChatID))

		err := notifier.NotifyOperator(t.Context(), "New order 482913")

		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, operatorChatID, sender.sent[0].ChatID)
		assert.Equal(t, "New order 482913", sender.sent[0].Text)
		assert.Nil(t, sender.sent[0].ReplyMarkup)
	})

	t.Run("should attach inline buttons", func(t *testing.T) {
		sender := &fakeSender{}
		notifier := NewNotifier(sender, NewOperatorBinding(operatorChatID))

		err := notifier.NotifyOperator(t.Context(), "New order 482913", []ports.ChatButton{
			{Label: "✅ Confirm", Data: "confirm_482913"},
			{Label: "❌ Cancel", Data: "cancel_482913"},
		})

		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		markup, ok := sender.sent[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, markup.InlineKeyboard, 1)
		require.Len(t, markup.InlineKeyboard[0], 2)
		assert.Equal(t, "confirm_482913", *markup.InlineKeyboard[0][0].CallbackData)
	})

	t.Run("should follow a rebound operator chat", func(t *testing.T) {
		sender := &fakeSender{}
		binding := NewOperatorBinding(operatorChatID)
		notifier := NewNotifier(sender, binding)

		binding.Rebind(777)
		require.NoError(t, notifier.NotifyOperator(t.Context(), "hello"))

		assert.Equal(t, int64(777), sender.sent[0].ChatID)
	})

	t.Run("should propagate send failures", func(t *testing.T) {
		sendErr := errors.New("telegram is down")
		notifier := NewNotifier(&failingSender{err: sendErr}, NewOperatorBinding(operatorChatID))

		err := notifier.NotifyOperator(t.Context(), "hello")

		assert.ErrorIs(t, err, sendErr)
	})

	t.Run("should respect a cancelled context", func(t *testing.T) {
		sender := &fakeSender{}
		notifier := NewNotifier(sender, NewOperatorBinding(operatorChatID))

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := notifier.NotifyOperator(ctx, "hello")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, sender.sent)
	})
}
