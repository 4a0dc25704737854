package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var received []*Event
	bus.Subscribe(RefreshCompleted, func(e *Event) {
		received = append(received, e)
	})

	bus.Publish(RefreshCompleted, RefreshCompletedData{Positions: 9, TotalValue: 375000})
	bus.Publish(RefreshFailed, RefreshFailedData{Reason: "network"}) // different type: not delivered

	assert.Len(t, received, 1)
	assert.Equal(t, RefreshCompleted, received[0].Type)

	data, ok := received[0].Data.(RefreshCompletedData)
	assert.True(t, ok)
	assert.Equal(t, 9, data.Positions)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	id := bus.Subscribe(RefreshCompleted, func(e *Event) { count++ })

	bus.Publish(RefreshCompleted, nil)
	bus.Unsubscribe(RefreshCompleted, id)
	bus.Publish(RefreshCompleted, nil)

	assert.Equal(t, 1, count)
}

func TestUnsubscribe_UnknownIDIsNoOp(t *testing.T) {
	bus := NewBus()
	bus.Unsubscribe(RefreshCompleted, "missing")
	bus.Publish(RefreshCompleted, nil)
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewBus()

	a, b := 0, 0
	bus.Subscribe(PerformanceUpdated, func(e *Event) { a++ })
	bus.Subscribe(PerformanceUpdated, func(e *Event) { b++ })

	bus.Publish(PerformanceUpdated, PerformanceUpdatedData{Points: 30})

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
