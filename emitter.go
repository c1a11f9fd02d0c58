package notify

import (
	"fmt"
	"sync"
)

// Listener reacts to a lifecycle event for one transaction. The return
// value steers the default notification: nil keeps it, a value with
// Suppress set drops it, anything else customizes it field-wise.
type Listener func(tx TransactionRecord) *NotificationOptions

var validEventCodes = map[EventCode]struct{}{
	EventTxSent:             {},
	EventTxPool:             {},
	EventTxConfirmed:        {},
	EventTxSpeedUp:          {},
	EventTxCancel:           {},
	EventTxFailed:           {},
	EventTxRequest:          {},
	EventNSFFail:            {},
	EventTxRepeat:           {},
	EventTxAwaitingApproval: {},
	EventTxConfirmReminder:  {},
	EventTxSendFail:         {},
	EventTxError:            {},
	EventTxUnderPriced:      {},
	EventAll:                {},
}

// Emitter carries lifecycle events for a single transaction to the
// caller. Each event code has one listener slot; registering again for
// the same code replaces the previous listener.
type Emitter struct {
	mu        sync.Mutex
	listeners map[EventCode]Listener
}

func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[EventCode]Listener)}
}

// On registers fn for code. The code must be in the fixed allow-list
// and fn must be non-nil.
func (e *Emitter) On(code EventCode, fn Listener) error {
	if _, ok := validEventCodes[code]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidEventCode, code)
	}
	if fn == nil {
		return fmt.Errorf("%w: listener for %q is nil", ErrInvalidListener, code)
	}
	e.mu.Lock()
	e.listeners[code] = fn
	e.mu.Unlock()
	return nil
}

// Emit invokes the listener registered for the event's code, falling
// back to the "all" slot, and passes the listener's verdict through
// unchanged. No registered listener means a nil (use-default) verdict.
func (e *Emitter) Emit(tx TransactionRecord) *NotificationOptions {
	e.mu.Lock()
	fn, ok := e.listeners[tx.EventCode]
	if !ok {
		fn = e.listeners[EventAll]
	}
	e.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(tx)
}
