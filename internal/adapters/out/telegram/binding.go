package telegram

import "sync"

// OperatorBinding holds the chat id of the shop operator. The bot only
// listens to this chat and the notifier only writes to it. The binding is
// mutable because the setadmin flow rebinds the operator at runtime; the
// mutex keeps the receiver goroutine and the fan-out worker consistent.
type OperatorBinding struct {
	mu     sync.RWMutex
	chatID int64
}

// NewOperatorBinding creates a binding to the given operator chat.
func NewOperatorBinding(chatID int64) *OperatorBinding {
	return &OperatorBinding{chatID: chatID}
}

// ChatID returns the currently bound operator chat.
func (b *OperatorBinding) ChatID() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.chatID
}

// Rebind points the binding at a new operator chat.
func (b *OperatorBinding) Rebind(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatID = chatID
}

// Authorized reports whether the chat is the bound operator chat.
func (b *OperatorBinding) Authorized(chatID int64) bool {
	return b.ChatID() == chatID
}
