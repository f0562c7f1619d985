package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elementa-lab/elementa_api/shared"
)

func TestNotificationService_PublishOrder(t *testing.T) {
	bus := &NotificationService{}

	var got []int
	bus.Subscribe(shared.EventXPUpdated, func(e Event) {
		got = append(got, e.Payload.(int))
	})

	bus.Publish(shared.EventXPUpdated, 1)
	bus.Publish(shared.EventXPUpdated, 2)
	bus.Publish(shared.EventXPUpdated, 3)

	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestNotificationService_MultipleSubscribers(t *testing.T) {
	bus := &NotificationService{}

	first, second := 0, 0
	bus.Subscribe(shared.EventStreakUpdated, func(Event) { first++ })
	bus.Subscribe(shared.EventStreakUpdated, func(Event) { second++ })

	bus.Publish(shared.EventStreakUpdated, nil)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestNotificationService_NoSubscribersIsNoOp(t *testing.T) {
	bus := &NotificationService{}
	assert.NotPanics(t, func() {
		bus.Publish(shared.EventAchievementUnlocked, "anything")
	})
}

func TestNotificationService_NameFiltering(t *testing.T) {
	bus := &NotificationService{}

	xp, streak := 0, 0
	bus.Subscribe(shared.EventXPUpdated, func(Event) { xp++ })
	bus.Subscribe(shared.EventStreakUpdated, func(Event) { streak++ })

	bus.Publish(shared.EventXPUpdated, nil)

	assert.Equal(t, 1, xp)
	assert.Equal(t, 0, streak)
}

func TestNotificationService_SubscribeAll(t *testing.T) {
	bus := &NotificationService{}

	var names []string
	bus.SubscribeAll(func(e Event) { names = append(names, e.Name) })

	bus.Publish(shared.EventXPUpdated, nil)
	bus.Publish(shared.EventStreakUpdated, nil)

	assert.Equal(t, []string{shared.EventXPUpdated, shared.EventStreakUpdated}, names)
}

func TestNotificationService_PanickingSubscriberIsolated(t *testing.T) {
	bus := &NotificationService{}

	delivered := false
	bus.Subscribe(shared.EventXPUpdated, func(Event) { panic("boom") })
	bus.Subscribe(shared.EventXPUpdated, func(Event) { delivered = true })

	assert.NotPanics(t, func() {
		bus.Publish(shared.EventXPUpdated, nil)
	})
	assert.True(t, delivered)
}
