package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventTaskCreated         = "task_created"
	EventTaskClaimed         = "task_claimed"
	EventTaskCompleted       = "task_completed"
	EventTaskClaimConflict   = "task_claim_conflict"
	EventSubscriptionCreated = "subscription_created"
	EventUserRegistered      = "user_registered"
)

// TaskEventPayload минимальный снимок задачи для подписчиков шины.
type TaskEventPayload struct {
	TaskID   int64  `json:"task_id"`
	ClientID int64  `json:"client_id"`
	WorkerID int64  `json:"worker_id,omitempty"`
	Status   string `json:"status"`
}

// SubscriptionEventPayload снимок оформленной подписки.
type SubscriptionEventPayload struct {
	SubscriptionID int64     `json:"subscription_id"`
	UserID         int64     `json:"user_id"`
	Level          string    `json:"lvl"`
	StartsAt       time.Time `json:"starts_at"`
	EndAt          time.Time `json:"end_at"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
