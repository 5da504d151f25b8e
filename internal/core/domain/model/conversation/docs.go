// Package conversation implements the stateful chat protocol that lets a
// human operator drive order state transitions from a phone.
//
// The engine holds a single active flow per chat, modeled as a sealed set
// of tagged states:
//
//	Idle ──action_<verb>──> AwaitingOrderID(verb) ──order id──> intent / AwaitingTrackingNumber
//	Idle ──ship_<orderId>──────────────────────────> AwaitingTrackingNumber(orderId)
//	any non-Idle ──cancel_op──> Idle
//
// Invalid input preserves the current state and re-prompts the operator,
// so a typo never discards the collected context. Conversation state is
// ephemeral and advisory: it is never persisted, and a background sweep
// drops flows idle for longer than the configured window.
//
// The engine only classifies input into intents; executing the intents
// against the order store is the chat router's job.
package conversation
