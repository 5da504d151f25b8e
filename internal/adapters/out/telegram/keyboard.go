package telegram

import (
	"storefront/internal/core/domain/model/conversation"
	"storefront/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// markupFromButtons converts port-level button rows into the telegram
// inline keyboard representation.
func markupFromButtons(rows [][]ports.ChatButton) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// mainMenuKeyboard is the action menu shown on /start: each button opens
// a flow that then asks for the order number.
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm order", "action_"+conversation.ActionConfirm.String()),
			tgbotapi.NewInlineKeyboardButtonData("📦 Ship order", "action_"+conversation.ActionShip.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏁 Mark delivered", "action_"+conversation.ActionDeliver.String()),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel order", "action_"+conversation.ActionCancel.String()),
		),
	)
}

// cancelOpKeyboard accompanies every in-flight flow prompt so a stray
// button press never strands the operator mid-conversation.
func cancelOpKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖ Cancel operation", conversation.CallbackCancelOp),
		),
	)
}

// detailKeyboard returns the next-action buttons for an order detail view,
// depending on where the order currently is in its lifecycle.
func detailKeyboard(orderID string, status string) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	switch status {
	case "pending":
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm", conversation.ActionConfirm.String()+"_"+orderID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", conversation.ActionCancel.String()+"_"+orderID),
		))
	case "confirmed":
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Ship", "ship_"+orderID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", conversation.ActionCancel.String()+"_"+orderID),
		))
	case "shipped":
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏁 Delivered", conversation.ActionDeliver.String()+"_"+orderID),
		))
	default:
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
