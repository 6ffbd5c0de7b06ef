// Package eventbus is a small synchronous publish/subscribe hub keyed by
// event type.
package eventbus

import (
	"fmt"

	"go.uber.org/zap"
)

// Listener handles one event. A returned error is logged and does not
// stop delivery to the remaining listeners.
type Listener[E any] func(E) error

type subscription[E any] struct {
	id uint64
	fn Listener[E]
}

// Bus delivers events synchronously, in subscription order. It is meant
// to be owned by a single goroutine.
type Bus[K comparable, E any] struct {
	logger      *zap.Logger
	nextID      uint64
	byKey       map[K][]subscription[E]
	all         []subscription[E]
	dispatching int
}

// New creates a bus. A nil logger discards listener failures.
func New[K comparable, E any](logger *zap.Logger) *Bus[K, E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus[K, E]{logger: logger, byKey: make(map[K][]subscription[E])}
}

// Subscribe registers fn for events of type k and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (b *Bus[K, E]) Subscribe(k K, fn Listener[E]) func() {
	b.nextID++
	id := b.nextID
	b.byKey[k] = append(b.byKey[k], subscription[E]{id: id, fn: fn})
	return func() {
		b.byKey[k] = remove(b.byKey[k], id)
		if len(b.byKey[k]) == 0 {
			delete(b.byKey, k)
		}
	}
}

// SubscribeAll registers fn for every event.
func (b *Bus[K, E]) SubscribeAll(fn Listener[E]) func() {
	b.nextID++
	id := b.nextID
	b.all = append(b.all, subscription[E]{id: id, fn: fn})
	return func() { b.all = remove(b.all, id) }
}

// Emit delivers e to the listeners of k, then to catch-all listeners.
// Listeners added or removed during Emit take effect on the next event.
func (b *Bus[K, E]) Emit(k K, e E) {
	keyed := append([]subscription[E](nil), b.byKey[k]...)
	all := append([]subscription[E](nil), b.all...)

	b.dispatching++
	defer func() { b.dispatching-- }()

	for _, s := range keyed {
		b.call(k, s, e)
	}
	for _, s := range all {
		b.call(k, s, e)
	}
}

// Dispatching reports whether an Emit is in progress.
func (b *Bus[K, E]) Dispatching() bool { return b.dispatching > 0 }

func (b *Bus[K, E]) call(k K, s subscription[E], e E) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked",
				zap.String("event", fmt.Sprint(k)),
				zap.Any("panic", r),
			)
		}
	}()
	if err := s.fn(e); err != nil {
		b.logger.Warn("event listener failed",
			zap.String("event", fmt.Sprint(k)),
			zap.Error(err),
		)
	}
}

func remove[E any](subs []subscription[E], id uint64) []subscription[E] {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
