package conversation

import "storefront/internal/core/domain/model/kernel"

// Action is an operator verb driven through the chat channel.
type Action int

const (
	// ActionUnknown represents an invalid or undefined action.
	ActionUnknown Action = iota

	// ActionConfirm accepts a pending order.
	ActionConfirm

	// ActionShip starts the shipping flow; it collects a tracking number
	// before the order can move to shipped.
	ActionShip

	// ActionCancel calls an order off.
	ActionCancel

	// ActionDeliver marks a shipped order as received.
	ActionDeliver

	// ActionSetAdmin rebinds the operator chat at runtime.
	ActionSetAdmin

	// ActionProcessTracking carries a collected tracking number for an order.
	// It is only ever produced by the engine, never requested by a button.
	ActionProcessTracking
)

// getActionStrings returns the wire names used in intents and callback data.
func getActionStrings() map[Action]string {
	return map[Action]string{
		ActionConfirm:         "confirm",
		ActionShip:            "ship",
		ActionCancel:          "cancel",
		ActionDeliver:         "deliver",
		ActionSetAdmin:        "setadmin",
		ActionProcessTracking: "process_ttn",
	}
}

// ActionFromString parses an action verb from callback data.
// ActionProcessTracking is internal and cannot be requested by a button.
func ActionFromString(s string) (Action, bool) {
	for action, str := range getActionStrings() {
		if str == s && action != ActionProcessTracking {
			return action, true
		}
	}
	return ActionUnknown, false
}

// String returns the wire name of the action.
func (a Action) String() string {
	if s, ok := getActionStrings()[a]; ok {
		return s
	}
	return "unknown"
}

// State is the sealed set of per-chat conversation states. Exactly one
// intent can be in flight per chat; the variant carries the context that
// intent still needs. Illegal combinations (for example a pending tracking
// number without an order) are unrepresentable.
type State interface {
	stateName() string
}

// Idle means no intent is in flight for the chat.
type Idle struct{}

func (Idle) stateName() string { return "idle" }

// AwaitingOrderID means the operator pressed an action button and the
// engine is waiting for the target order's six-digit code.
type AwaitingOrderID struct {
	Action Action
}

func (AwaitingOrderID) stateName() string { return "awaiting_order_id" }

// AwaitingTrackingNumber means the shipping flow knows its order and is
// waiting for a fourteen-digit carrier tracking number.
type AwaitingTrackingNumber struct {
	OrderID kernel.OrderID
}

func (AwaitingTrackingNumber) stateName() string { return "awaiting_tracking_number" }

// Intent is a classified, fully-parsed operator action produced by the
// engine from raw chat input. The engine only classifies; acting on the
// intent is the caller's job.
type Intent struct {
	Action   Action
	OrderID  kernel.OrderID
	Tracking *kernel.TrackingNumber

	// Extra carries non-order payloads, currently only the new operator
	// chat id for ActionSetAdmin.
	Extra string
}

// Result is the outcome of feeding one chat event into the engine.
type Result struct {
	// Processed reports whether the engine consumed the input. Unconsumed
	// input (free text while idle) falls through to command handling.
	Processed bool

	// Intent is non-nil when the input completed a flow.
	Intent *Intent

	// Prompt is the reply to show the operator: the next instruction,
	// a re-prompt after invalid input, or a flow confirmation.
	Prompt string
}
