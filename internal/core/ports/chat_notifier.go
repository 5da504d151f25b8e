package ports

import "context"

// ChatButton is one inline action button attached to a chat message.
type ChatButton struct {
	// Label is the text shown on the button.
	Label string

	// Data is the opaque callback payload delivered back on press,
	// e.g. "confirm_482913" or "cancel_op".
	Data string
}

// ChatNotifier is the outbound contract of the chat channel: sending
// messages with optional inline buttons to the operator. Receiving is the
// chat adapter's own concern and never crosses this boundary.
//
// Implementations do not retry; the fan-out dispatcher does.
type ChatNotifier interface {
	// NotifyOperator sends a message to the currently bound operator chat.
	// Rows of buttons are rendered beneath the text in order.
	NotifyOperator(ctx context.Context, text string, buttons ...[]ChatButton) error
}
