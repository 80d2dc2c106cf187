package metrics

import (
	"encoding/json"

	"podryad/internal/events"
)

// ObserveBus подписывает счётчики на шину доменных событий. Метрики
// растут как побочный эффект событий, обработчики диалога о них не
// знают.
func (m *Metrics) ObserveBus(bus *events.EventBus) {
	if bus == nil {
		return
	}

	count := func(c interface{ Inc() }) events.EventHandler {
		return func(*events.Event) error {
			c.Inc()
			return nil
		}
	}

	bus.Subscribe(events.EventTaskCreated, count(m.TasksCreated))
	bus.Subscribe(events.EventTaskClaimed, count(m.TasksClaimed))
	bus.Subscribe(events.EventTaskCompleted, count(m.TasksCompleted))
	bus.Subscribe(events.EventTaskClaimConflict, count(m.ClaimConflicts))
	bus.Subscribe(events.EventUserRegistered, count(m.UsersRegistered))

	bus.Subscribe(events.EventSubscriptionCreated, func(ev *events.Event) error {
		var payload events.SubscriptionEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return err
		}
		m.SubscriptionsCreated.WithLabelValues(payload.Level).Inc()
		return nil
	})
}
