// Package bus is the session-scoped publish/subscribe channel that replaces
// ambient broadcast events between storefront components.
package bus

import (
	"context"
	"sync"
)

// Signal names a payload-free notification.
type Signal string

// CartChanged is published whenever the server confirmed a cart mutation.
const CartChanged Signal = "cart_changed"

// Handler receives a published signal.
type Handler func(ctx context.Context, signal Signal)

// Publisher is the side of the bus the gateways depend on.
type Publisher interface {
	Publish(ctx context.Context, signal Signal)
}

type subscription struct {
	id int
	fn Handler
}

// Bus delivers signals synchronously to every current subscriber.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Signal][]subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Signal][]subscription)}
}

// Subscribe registers fn for signal and returns a func that removes it.
// Calling the returned func more than once is harmless.
func (b *Bus) Subscribe(signal Signal, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[signal] = append(b.subs[signal], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(signal, id) })
	}
}

func (b *Bus) remove(signal Signal, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[signal]
	for i, s := range subs {
		if s.id == id {
			b.subs[signal] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish calls every handler subscribed to signal. Handlers run outside the
// bus lock, so they may subscribe or unsubscribe.
func (b *Bus) Publish(ctx context.Context, signal Signal) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[signal]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ctx, signal)
	}
}

// Len returns the number of subscribers to signal.
func (b *Bus) Len(signal Signal) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[signal])
}

// Close drops every subscriber.
func (b *Bus) Close() {
	b.mu.Lock()
	b.subs = make(map[Signal][]subscription)
	b.mu.Unlock()
}
