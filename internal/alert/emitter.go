package alert

import (
	"log"

	"scalp-radar/internal/domain"
)

// Callback receives an emitted alert. Callbacks run synchronously on the tick
// path; failures (including panics) are swallowed and never affect the tick.
type Callback func(domain.ScalpAlert)

// Emitter records emitted alerts and fans them out: every alert reaches the
// OnAlert callbacks, only push-worthy ones reach the OnPush callbacks
// (reserved for audio/OS-notification style side effects).
type Emitter struct {
	history *History
	onAlert []Callback
	onPush  []Callback
}

func NewEmitter(history *History) *Emitter {
	if history == nil {
		history = NewHistory()
	}
	return &Emitter{history: history}
}

func (e *Emitter) OnAlert(cb Callback) {
	if cb != nil {
		e.onAlert = append(e.onAlert, cb)
	}
}

func (e *Emitter) OnPush(cb Callback) {
	if cb != nil {
		e.onPush = append(e.onPush, cb)
	}
}

// Emit appends the alert to history and dispatches callbacks.
func (e *Emitter) Emit(a domain.ScalpAlert) {
	e.history.Add(a)
	for _, cb := range e.onAlert {
		safeDispatch(cb, a)
	}
	if !a.ShouldPush {
		return
	}
	for _, cb := range e.onPush {
		safeDispatch(cb, a)
	}
}

func (e *Emitter) History() *History {
	return e.history
}

func safeDispatch(cb Callback, a domain.ScalpAlert) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("alert callback panic swallowed: %v", r)
		}
	}()
	cb(a)
}
