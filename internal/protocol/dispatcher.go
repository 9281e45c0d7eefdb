package protocol

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nkarlsen/lyngctl/internal/logging"
)

// Handler receives classified state updates
type Handler func(update StateUpdate)

// Subscription identifies a registered handler so it can be removed
type Subscription struct {
	id   uint64
	kind Kind
}

// Dispatcher routes state updates to registered subscribers.
//
// Subscribers register for a specific Kind or for KindAny (the
// catch-all). On dispatch, kind-specific handlers fire before catch-all
// handlers, each group in registration order. A panicking handler is
// recovered and logged; it never prevents delivery to the remaining
// handlers or disturbs the engine's read loop.
type Dispatcher struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Kind][]subscriber
}

type subscriber struct {
	id      uint64
	handler Handler
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subs: make(map[Kind][]subscriber),
	}
}

// Subscribe registers a handler for updates of the given kind.
// Use KindAny to receive every update. The returned Subscription is
// the handle for Unsubscribe.
func (d *Dispatcher) Subscribe(kind Kind, handler Handler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	sub := Subscription{id: d.nextID, kind: kind}
	d.subs[kind] = append(d.subs[kind], subscriber{id: sub.id, handler: handler})

	logging.Debug("Registered state update handler",
		zap.String("kind", string(kind)),
		zap.Uint64("subscription_id", sub.id),
	)
	return sub
}

// Unsubscribe removes a previously registered handler. Removing a
// subscription twice is harmless.
func (d *Dispatcher) Unsubscribe(sub Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()

	list := d.subs[sub.kind]
	for i, s := range list {
		if s.id == sub.id {
			d.subs[sub.kind] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Dispatch delivers an update to all handlers registered for its kind,
// then to all catch-all handlers, in registration order
func (d *Dispatcher) Dispatch(update StateUpdate) {
	d.mu.Lock()
	// Snapshot so handlers may subscribe/unsubscribe from within
	handlers := make([]subscriber, 0, len(d.subs[update.Kind])+len(d.subs[KindAny]))
	handlers = append(handlers, d.subs[update.Kind]...)
	handlers = append(handlers, d.subs[KindAny]...)
	d.mu.Unlock()

	for _, s := range handlers {
		d.invoke(s, update)
	}
}

// invoke runs one handler with panic isolation
func (d *Dispatcher) invoke(s subscriber, update StateUpdate) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("State update handler panicked",
				zap.String("kind", string(update.Kind)),
				zap.Uint64("subscription_id", s.id),
				zap.Any("panic", r),
			)
		}
	}()
	s.handler(update)
}
