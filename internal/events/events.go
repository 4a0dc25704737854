// Package events provides the in-process event bus used to fan refresh
// outcomes out to interested consumers (the live stream, logging).
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies a class of system event
type EventType string

const (
	// RefreshCompleted fires after a portfolio refresh replaced the cache entry
	RefreshCompleted EventType = "refresh_completed"
	// RefreshFailed fires when a whole refresh cycle failed and fallback data was served
	RefreshFailed EventType = "refresh_failed"
	// PerformanceUpdated fires when the performance series consumer recomputed its view
	PerformanceUpdated EventType = "performance_updated"
)

// Event is a single published occurrence
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Handler receives published events. Handlers must not block: they run on
// the publisher's goroutine.
type Handler func(*Event)

// Bus is a minimal publish/subscribe event bus
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType]map[string]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType]map[string]Handler),
	}
}

// Subscribe registers a handler for an event type and returns a
// subscription id for Unsubscribe.
func (b *Bus) Subscribe(t EventType, h Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	if b.handlers[t] == nil {
		b.handlers[t] = make(map[string]Handler)
	}
	b.handlers[t][id] = h
	return id
}

// Unsubscribe removes a subscription. Unknown ids are a no-op.
func (b *Bus) Unsubscribe(t EventType, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers[t], id)
}

// Publish delivers an event to all handlers subscribed to its type
func (b *Bus) Publish(t EventType, data interface{}) {
	event := &Event{
		Type:      t,
		Timestamp: time.Now(),
		Data:      data,
	}

	b.mu.RLock()
	subs := make([]Handler, 0, len(b.handlers[t]))
	for _, h := range b.handlers[t] {
		subs = append(subs, h)
	}
	b.mu.RUnlock()

	for _, h := range subs {
		h(event)
	}
}
