package conversation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"storefront/internal/core/domain/model/kernel"
)

const (
	// CallbackCancelOp is the callback data of the "cancel operation"
	// button shown while a flow is in flight.
	CallbackCancelOp = "cancel_op"

	callbackActionPrefix = "action_"
	callbackShipPrefix   = "ship_"
)

var chatIDPattern = regexp.MustCompile(`^-?[0-9]{1,19}$`)

// session is the per-chat conversation context. It is never persisted;
// a process restart loses in-flight conversations, which is acceptable
// because the underlying order state is unaffected.
type session struct {
	state        State
	lastActivity time.Time
}

// Engine turns a sequence of chat events (button presses and free-text
// replies) into fully-parsed intents. It holds one active flow per chat
// and re-prompts on invalid input instead of dropping the collected
// context.
//
// The engine never calls the store or the mirror; it only classifies
// input. All methods are safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	sessions map[int64]*session
	clock    func() time.Time
}

// NewEngine creates a conversation engine. A nil clock defaults to time.Now;
// tests inject a fake clock to drive the inactivity sweep.
func NewEngine(clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		sessions: make(map[int64]*session),
		clock:    clock,
	}
}

// StateOf returns the current conversation state for a chat.
// Chats without a session are Idle.
func (e *Engine) StateOf(chatID int64) State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if s, ok := e.sessions[chatID]; ok {
		return s.state
	}
	return Idle{}
}

// HandleCallback processes an inline button press.
//
// Recognized callback data:
//   - "action_<verb>": starts a flow, moving the chat to AwaitingOrderID
//   - "ship_<orderId>": starts the tracking flow for a known order,
//     skipping the order-id step
//   - "<verb>_<orderId>": an order-detail button; emits the intent directly
//   - "cancel_op": abandons the in-flight flow and returns to Idle
func (e *Engine) HandleCallback(chatID int64, data string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if data == CallbackCancelOp {
		if _, idle := e.stateLocked(chatID).(Idle); idle {
			return Result{Processed: true, Prompt: "No operation in progress."}
		}
		e.setState(chatID, Idle{})
		return Result{Processed: true, Prompt: "Operation cancelled."}
	}

	if verb, ok := strings.CutPrefix(data, callbackActionPrefix); ok {
		action, known := ActionFromString(verb)
		if !known {
			return Result{}
		}
		e.setState(chatID, AwaitingOrderID{Action: action})
		if action == ActionSetAdmin {
			return Result{Processed: true, Prompt: "Send the new operator chat id."}
		}
		return Result{Processed: true, Prompt: fmt.Sprintf("Send the order number to %s.", action)}
	}

	if rawID, ok := strings.CutPrefix(data, callbackShipPrefix); ok {
		orderID, err := kernel.OrderIDFromString(rawID)
		if err != nil {
			return Result{}
		}
		e.setState(chatID, AwaitingTrackingNumber{OrderID: orderID})
		return Result{
			Processed: true,
			Prompt:    fmt.Sprintf("Send the %d-digit tracking number for order %s.", kernel.TrackingNumberLength, orderID),
		}
	}

	// Order-detail buttons carry the order id in the callback data, so the
	// intent completes in a single press.
	if verb, rawID, found := strings.Cut(data, "_"); found {
		action, known := ActionFromString(verb)
		if !known {
			return Result{}
		}
		orderID, err := kernel.OrderIDFromString(rawID)
		if err != nil {
			return Result{}
		}
		e.setState(chatID, Idle{})
		return Result{
			Processed: true,
			Intent:    &Intent{Action: action, OrderID: orderID},
		}
	}

	return Result{}
}

// HandleText processes a free-text message according to the chat's state.
//
// While Idle the engine does not consume text; commands fall through to
// the caller. While a flow is in flight, invalid input preserves the state
// and re-prompts, so an operator's typo never discards the collected
// context.
func (e *Engine) HandleText(chatID int64, text string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	text = strings.TrimSpace(text)

	switch state := e.stateLocked(chatID).(type) {
	case AwaitingOrderID:
		return e.handleAwaitedID(chatID, state, text)

	case AwaitingTrackingNumber:
		tn, err := kernel.TrackingNumberFromString(text)
		if err != nil {
			return Result{
				Processed: true,
				Prompt: fmt.Sprintf("%q is not a valid tracking number, expected exactly %d digits. Try again.",
					text, kernel.TrackingNumberLength),
			}
		}
		e.setState(chatID, Idle{})
		return Result{
			Processed: true,
			Intent:    &Intent{Action: ActionProcessTracking, OrderID: state.OrderID, Tracking: &tn},
		}

	default:
		return Result{}
	}
}

func (e *Engine) handleAwaitedID(chatID int64, state AwaitingOrderID, text string) Result {
	if state.Action == ActionSetAdmin {
		if !chatIDPattern.MatchString(text) {
			return Result{
				Processed: true,
				Prompt:    fmt.Sprintf("%q is not a valid chat id. Try again.", text),
			}
		}
		e.setState(chatID, Idle{})
		return Result{
			Processed: true,
			Intent:    &Intent{Action: ActionSetAdmin, Extra: text},
		}
	}

	orderID, err := kernel.OrderIDFromString(text)
	if err != nil {
		return Result{
			Processed: true,
			Prompt: fmt.Sprintf("%q is not a valid order number, expected %d digits. Try again.",
				text, kernel.OrderIDLength),
		}
	}

	if state.Action == ActionShip {
		// Shipping needs the tracking number before the intent is complete.
		e.setState(chatID, AwaitingTrackingNumber{OrderID: orderID})
		return Result{
			Processed: true,
			Prompt:    fmt.Sprintf("Send the %d-digit tracking number for order %s.", kernel.TrackingNumberLength, orderID),
		}
	}

	e.setState(chatID, Idle{})
	return Result{
		Processed: true,
		Intent:    &Intent{Action: state.Action, OrderID: orderID},
	}
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed. In-flight flows are abandoned, not completed; the
// underlying orders are untouched.
func (e *Engine) Sweep(maxIdle time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.clock().Add(-maxIdle)
	removed := 0
	for chatID, s := range e.sessions {
		if s.lastActivity.Before(cutoff) {
			delete(e.sessions, chatID)
			removed++
		}
	}
	return removed
}

// stateLocked returns the chat's state. Callers must hold e.mu.
func (e *Engine) stateLocked(chatID int64) State {
	if s, ok := e.sessions[chatID]; ok {
		return s.state
	}
	return Idle{}
}

// setState records the chat's state and activity time. Callers must hold
// e.mu. Idle chats keep no session entry, so the map cannot grow with
// completed flows.
func (e *Engine) setState(chatID int64, state State) {
	if _, idle := state.(Idle); idle {
		delete(e.sessions, chatID)
		return
	}
	e.sessions[chatID] = &session{
		state:        state,
		lastActivity: e.clock(),
	}
}
