package services

import (
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

const NOTIFICATION_SVC = "notification_svc"

// Event is one gamification notification. Payload shape depends on the event
// name; see shared.EventXPUpdated and friends.
type Event struct {
	Name    string      `json:"name"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Subscriber receives events synchronously, in publish order. Handlers must
// not block; slow consumers should hand off to their own goroutine.
type Subscriber func(Event)

// NotificationService is an in-process publish/subscribe bus. Publishing is
// fire-and-forget: a panicking subscriber is logged and never affects the
// publisher or other subscribers.
type NotificationService struct {
	context.DefaultService

	mu   sync.RWMutex
	subs map[string][]Subscriber
	all  []Subscriber
}

func (svc *NotificationService) Id() string {
	return NOTIFICATION_SVC
}

func (svc *NotificationService) Start() error {
	return nil
}

// Subscribe registers a handler for one event name.
func (svc *NotificationService) Subscribe(name string, fn Subscriber) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.subs == nil {
		svc.subs = make(map[string][]Subscriber)
	}
	svc.subs[name] = append(svc.subs[name], fn)
}

// SubscribeAll registers a handler for every event.
func (svc *NotificationService) SubscribeAll(fn Subscriber) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.all = append(svc.all, fn)
}

// Publish delivers the event to current subscribers and returns. Publishing
// with no subscribers is a no-op, not an error.
func (svc *NotificationService) Publish(name string, payload interface{}) {
	event := Event{Name: name, Payload: payload, At: time.Now()}

	svc.mu.RLock()
	handlers := make([]Subscriber, 0, len(svc.subs[name])+len(svc.all))
	handlers = append(handlers, svc.subs[name]...)
	handlers = append(handlers, svc.all...)
	svc.mu.RUnlock()

	eventsPublished.WithLabelValues(name).Inc()

	for _, fn := range handlers {
		svc.dispatch(fn, event)
	}
}

func (svc *NotificationService) dispatch(fn Subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("event", event.Name).Errorf("subscriber panic: %v", r)
		}
	}()
	fn(event)
}

// XPUpdatedPayload accompanies shared.EventXPUpdated.
type XPUpdatedPayload struct {
	UserKey string `json:"user_key"`
	XP      int    `json:"xp"`
	Level   int    `json:"level"`
	Gained  int    `json:"gained"`
}

// StreakUpdatedPayload accompanies shared.EventStreakUpdated.
type StreakUpdatedPayload struct {
	UserKey       string `json:"user_key"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// AchievementUnlockedPayload accompanies shared.EventAchievementUnlocked.
type AchievementUnlockedPayload struct {
	UserKey       string `json:"user_key"`
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
}
