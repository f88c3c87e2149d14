// Package events carries the cross-cutting notifications the client emits,
// decoupling the HTTP layer from whatever front end hosts it. The only topic
// today is session invalidation: instead of performing navigation itself, the
// dispatcher publishes an event and the hosting application decides what a
// "redirect to login" means for it.
package events

import (
	evbus "github.com/asaskevich/EventBus"
)

const topicSessionInvalidated = "session.invalidated"

// SessionInvalidated is published exactly once per request that received an
// authorization failure and caused the credential store to be cleared.
type SessionInvalidated struct {
	// Path is the request path that triggered the teardown.
	Path string
	// Reason is a short machine-readable cause, currently always
	// "unauthorized".
	Reason string
}

// Bus is a thin typed facade over EventBus.
type Bus struct {
	bus evbus.Bus
}

// NewBus creates an independent bus. Each client owns its own; there is no
// package-level singleton.
func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

// PublishSessionInvalidated notifies subscribers synchronously.
func (b *Bus) PublishSessionInvalidated(ev SessionInvalidated) {
	b.bus.Publish(topicSessionInvalidated, ev)
}

// SubscribeSessionInvalidated registers fn for session teardown events.
func (b *Bus) SubscribeSessionInvalidated(fn func(SessionInvalidated)) error {
	return b.bus.Subscribe(topicSessionInvalidated, fn)
}

// UnsubscribeSessionInvalidated removes a previously registered handler.
func (b *Bus) UnsubscribeSessionInvalidated(fn func(SessionInvalidated)) error {
	return b.bus.Unsubscribe(topicSessionInvalidated, fn)
}
