package storage

import (
	"context"
	"sync"
)

// EventKind classifies a cross-instance session event.
type EventKind string

const (
	// EventIdentityChanged means another instance wrote a (possibly
	// different) identity, e.g. a new login.
	EventIdentityChanged EventKind = "identity-changed"

	// EventSessionEnded means another instance removed the session
	// (logout, token purge).
	EventSessionEnded EventKind = "session-ended"
)

// Event is a typed cross-instance session notification. Origin carries the
// publishing instance's ID so subscribers can ignore their own writes, the
// same way browser storage events only fire in other tabs.
type Event struct {
	Kind   EventKind `json:"kind"`
	UserID string    `json:"userId,omitempty"`
	Origin string    `json:"origin"`
}

// Broadcaster is the explicit message-passing channel between client
// instances sharing one state medium. Publish stamps the event with the
// local instance's origin; Subscribe never delivers events whose Origin
// matches it.
type Broadcaster interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, fn func(Event)) (stop func(), err error)
}

// NopBroadcaster is the Broadcaster used in isolated scope: publishes go
// nowhere and subscriptions never fire.
type NopBroadcaster struct{}

func (NopBroadcaster) Publish(context.Context, Event) error { return nil }

func (NopBroadcaster) Subscribe(context.Context, func(Event)) (func(), error) {
	return func() {}, nil
}

// MemoryBroadcaster delivers events to in-process subscribers. It is used by
// tests and honors the same origin-filtering contract as the Redis
// implementation.
type MemoryBroadcaster struct {
	origin string

	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

func NewMemoryBroadcaster(origin string) *MemoryBroadcaster {
	return &MemoryBroadcaster{origin: origin, subs: make(map[int]func(Event))}
}

func (b *MemoryBroadcaster) Publish(_ context.Context, ev Event) error {
	ev.Origin = b.origin
	b.deliver(ev)
	return nil
}

// Inject delivers an event as if it were published by another instance.
// Tests use it to simulate foreign logins/logouts.
func (b *MemoryBroadcaster) Inject(ev Event) {
	b.deliver(ev)
}

func (b *MemoryBroadcaster) deliver(ev Event) {
	if ev.Origin == b.origin {
		return
	}
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

func (b *MemoryBroadcaster) Subscribe(_ context.Context, fn func(Event)) (func(), error) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}, nil
}
