package events

import (
	"encoding/json"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	handler := func(event *Event) error {
		received = event
		callCount++
		return nil
	}

	bus.Subscribe(EventTaskClaimed, handler)

	payload := TaskEventPayload{TaskID: 5, ClientID: 1, WorkerID: 7, Status: "in_work"}
	err := bus.PublishJSON(EventTaskClaimed, payload)
	if err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != EventTaskClaimed {
		t.Errorf("expected type %s, got %s", EventTaskClaimed, received.Type)
	}

	var decoded TaskEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.WorkerID != 7 {
		t.Errorf("expected worker 7, got %d", decoded.WorkerID)
	}
}

func TestEventBus_NoSubscribers(t *testing.T) {
	bus := NewEventBus()
	if err := bus.PublishJSON(EventTaskCreated, TaskEventPayload{TaskID: 1}); err != nil {
		t.Fatalf("publish without subscribers should not fail: %v", err)
	}
}

func TestEventBus_NilBus(t *testing.T) {
	var bus *EventBus
	if err := bus.PublishJSON(EventTaskCreated, nil); err != nil {
		t.Fatalf("nil bus should be a no-op: %v", err)
	}
}
