// Package telegram is the chat channel adapter built on
// github.com/go-telegram-bot-api/telegram-bot-api/v5.
//
// The adapter has two halves. The outbound half is Notifier, which
// implements ports.ChatNotifier: the fan-out dispatcher pushes order
// notifications through it into the operator chat, rendered with inline
// action buttons. The inbound half is Receiver plus Router: the receiver
// long-polls the bot API and the router feeds each update through the
// conversation engine, dispatching completed intents to the command
// handlers and rendering order details and listings on request.
//
// Both halves share an OperatorBinding, the single mutable chat id the
// bot talks to. Updates from any other chat are dropped silently. The
// setadmin flow rebinds the operator chat at runtime; the binding is the
// only state that survives a flow.
package telegram
