package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/conversation"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// OrderReader is the read side the router renders from.
type OrderReader interface {
	ReadOrder(ctx context.Context, orderID kernel.OrderID) (queries.GetOrderQueryResponse, error)
	ListOrders(ctx context.Context) ([]queries.ListOrdersQueryResponse, error)
}

// Router turns telegram updates into conversation-engine events and
// dispatches the intents the engine completes to the command handlers.
// Updates from chats other than the bound operator chat are dropped
// without a reply.
type Router struct {
	engine          *conversation.Engine
	statusHandler   commands.ChangeOrderStatusCommandHandler
	trackingHandler commands.AttachTrackingCommandHandler
	orders          OrderReader
	binding         *OperatorBinding
	api             sender
	logger          *slog.Logger
}

// NewRouter creates an update router for the operator chat.
func NewRouter(
	engine *conversation.Engine,
	statusHandler commands.ChangeOrderStatusCommandHandler,
	trackingHandler commands.AttachTrackingCommandHandler,
	orders OrderReader,
	binding *OperatorBinding,
	api sender,
	logger *slog.Logger,
) *Router {
	return &Router{
		engine:          engine,
		statusHandler:   statusHandler,
		trackingHandler: trackingHandler,
		orders:          orders,
		binding:         binding,
		api:             api,
		logger:          logger.With("component", "telegram_router"),
	}
}

// HandleUpdate routes a single update. Errors are handled in-channel or
// logged; the update loop never stops on a bad update.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	}
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	if !r.binding.Authorized(chatID) {
		return
	}

	// Acknowledge the press so the client stops its spinner.
	if _, err := r.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.logger.Warn("callback ack failed", "error", err)
	}

	result := r.engine.HandleCallback(chatID, cb.Data)
	r.applyResult(ctx, chatID, result)

	if !result.Processed {
		r.logger.Warn("unrecognized callback data", "data", cb.Data)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !r.binding.Authorized(chatID) {
		return
	}

	result := r.engine.HandleText(chatID, msg.Text)
	if result.Processed {
		r.applyResult(ctx, chatID, result)
		return
	}

	r.handleCommand(ctx, chatID, strings.TrimSpace(msg.Text))
}

// applyResult replies with the engine's prompt and dispatches a completed
// intent. Prompts mid-flow carry a cancel button so the operator can
// always back out.
func (r *Router) applyResult(ctx context.Context, chatID int64, result conversation.Result) {
	if result.Prompt != "" {
		if _, inFlight := r.engine.StateOf(chatID).(conversation.Idle); !inFlight {
			r.reply(chatID, result.Prompt, cancelOpKeyboard())
		} else {
			r.reply(chatID, result.Prompt)
		}
	}
	if result.Intent != nil {
		r.dispatchIntent(ctx, chatID, result.Intent)
	}
}

func (r *Router) handleCommand(ctx context.Context, chatID int64, text string) {
	cmd, arg, _ := strings.Cut(text, " ")
	switch cmd {
	case "/start", "/help":
		msg := tgbotapi.NewMessage(chatID, "Storefront operator bot. Pick an action or send /orders.")
		msg.ReplyMarkup = mainMenuKeyboard()
		r.send(msg)

	case "/orders":
		r.replyOrderList(ctx, chatID)

	case "/order":
		orderID, err := kernel.OrderIDFromString(strings.TrimSpace(arg))
		if err != nil {
			r.reply(chatID, fmt.Sprintf("Usage: /order <%d-digit number>", kernel.OrderIDLength))
			return
		}
		r.replyOrderDetail(ctx, chatID, orderID)

	default:
		r.reply(chatID, "Unknown command. Send /help for the action menu.")
	}
}

func (r *Router) dispatchIntent(ctx context.Context, chatID int64, intent *conversation.Intent) {
	switch intent.Action {
	case conversation.ActionConfirm:
		r.changeStatus(ctx, chatID, intent.OrderID, order.Confirmed)
	case conversation.ActionCancel:
		r.changeStatus(ctx, chatID, intent.OrderID, order.Cancelled)
	case conversation.ActionDeliver:
		r.changeStatus(ctx, chatID, intent.OrderID, order.Delivered)
	case conversation.ActionProcessTracking:
		r.attachTracking(ctx, chatID, intent)
	case conversation.ActionSetAdmin:
		r.rebindOperator(chatID, intent.Extra)
	default:
		r.logger.Warn("unhandled intent", "action", intent.Action.String())
	}
}

func (r *Router) changeStatus(ctx context.Context, chatID int64, orderID kernel.OrderID, target order.Status) {
	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, "operator")
	if err != nil {
		r.logger.Error("build status command", "error", err)
		r.reply(chatID, "Something went wrong, try again.")
		return
	}

	outcome, err := r.statusHandler.Handle(ctx, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			r.reply(chatID, fmt.Sprintf("Order %s not found.", orderID))
			return
		}
		r.logger.Error("change order status", "orderId", orderID.String(), "error", err)
		r.reply(chatID, "Something went wrong, try again.")
		return
	}

	if outcome.Guidance != "" {
		r.reply(chatID, fmt.Sprintf("Can't do that: %s.", outcome.Guidance))
	}
	// On success the fan-out dispatcher posts the confirmation message.
}

func (r *Router) attachTracking(ctx context.Context, chatID int64, intent *conversation.Intent) {
	cmd, err := commands.NewAttachTrackingCommand(intent.OrderID, *intent.Tracking)
	if err != nil {
		r.logger.Error("build tracking command", "error", err)
		r.reply(chatID, "Something went wrong, try again.")
		return
	}

	outcome, err := r.trackingHandler.Handle(ctx, cmd)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			r.reply(chatID, fmt.Sprintf("Order %s not found.", intent.OrderID))
		case errors.Is(err, order.ErrTrackingIsFixed):
			r.reply(chatID, fmt.Sprintf("Order %s is already shipped, its tracking number can no longer change.", intent.OrderID))
		default:
			r.logger.Error("attach tracking", "orderId", intent.OrderID.String(), "error", err)
			r.reply(chatID, "Something went wrong, try again.")
		}
		return
	}

	if outcome.Guidance != "" {
		r.reply(chatID, fmt.Sprintf("Tracking number saved, but the order was not shipped: %s.", outcome.Guidance))
	}
}

func (r *Router) rebindOperator(chatID int64, rawChatID string) {
	newChatID, err := strconv.ParseInt(rawChatID, 10, 64)
	if err != nil {
		// The engine validates the pattern; this only trips on overflow.
		r.reply(chatID, fmt.Sprintf("%q is not a valid chat id.", rawChatID))
		return
	}

	r.binding.Rebind(newChatID)
	r.logger.Info("operator chat rebound", "chatId", newChatID)
	r.reply(chatID, fmt.Sprintf("Operator chat rebound to %d.", newChatID))
	if newChatID != chatID {
		r.reply(newChatID, "This chat now receives order notifications.")
	}
}

func (r *Router) replyOrderList(ctx context.Context, chatID int64) {
	rows, err := r.orders.ListOrders(ctx)
	if err != nil {
		r.logger.Error("list orders", "error", err)
		r.reply(chatID, "Something went wrong, try again.")
		return
	}
	if len(rows) == 0 {
		r.reply(chatID, "No orders yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Orders:\n")
	for _, row := range rows {
		fmt.Fprintf(&sb, "%s — %s — %s — %s\n",
			row.ID, statusLabel(row.Status), formatAmount(row.Total), row.CustomerName)
	}
	r.reply(chatID, strings.TrimRight(sb.String(), "\n"))
}

func (r *Router) replyOrderDetail(ctx context.Context, chatID int64, orderID kernel.OrderID) {
	resp, err := r.orders.ReadOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			r.reply(chatID, fmt.Sprintf("Order %s not found.", orderID))
			return
		}
		r.logger.Error("read order", "orderId", orderID.String(), "error", err)
		r.reply(chatID, "Something went wrong, try again.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, renderOrderDetail(resp))
	if keyboard := detailKeyboard(resp.ID, resp.Status); keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	r.send(msg)
}

func renderOrderDetail(resp queries.GetOrderQueryResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Order %s — %s\n", resp.ID, statusLabel(resp.Status))
	fmt.Fprintf(&sb, "%s, %s\n", resp.CustomerName, resp.CustomerPhone)
	if resp.CustomerEmail != "" {
		sb.WriteString(resp.CustomerEmail + "\n")
	}
	for _, line := range resp.Lines {
		fmt.Fprintf(&sb, "• %s ×%d — %s\n", line.Name, line.Qty, formatAmount(line.LineTotal))
	}
	if resp.Discount > 0 {
		fmt.Fprintf(&sb, "Discount: %s\n", formatAmount(resp.Discount))
	}
	fmt.Fprintf(&sb, "Total: %s\n", formatAmount(resp.Total))
	sb.WriteString(resp.Address + "\n")
	if resp.Tracking != "" {
		fmt.Fprintf(&sb, "TTN: %s\n", resp.Tracking)
	}
	if resp.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", resp.Notes)
	}
	fmt.Fprintf(&sb, "Created: %s", resp.CreatedAt.Format("2006-01-02 15:04"))
	return sb.String()
}

func statusLabel(wire string) string {
	status, err := order.StatusFromString(wire)
	if err != nil {
		return wire
	}
	return status.Label()
}

func formatAmount(amount int64) string {
	money, err := kernel.NewMoney(amount)
	if err != nil {
		return fmt.Sprintf("%d ₴", amount)
	}
	return money.String()
}

func (r *Router) reply(chatID int64, text string, markup ...tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(markup) > 0 {
		msg.ReplyMarkup = markup[0]
	}
	r.send(msg)
}

func (r *Router) send(msg tgbotapi.MessageConfig) {
	if _, err := r.api.Send(msg); err != nil {
		r.logger.Error("send reply", "chatId", msg.ChatID, "error", err)
	}
}
