package fanout

import "context"

// Task is one unit of asynchronous side-effect work: a mirror write or a
// chat notification derived from a committed store change.
type Task struct {
	// Name identifies the task kind in logs, e.g. "mirror_upsert".
	Name string

	// OrderID is the six-digit code of the affected order, empty for
	// tasks that are not tied to a single order.
	OrderID string

	// Attempts counts how many times Run has been invoked.
	Attempts int

	// Run performs the side effect against the transport.
	Run func(ctx context.Context) error
}
