package models

import "time"

// Tier уровень подписки клиента.
type Tier string

const (
	TierInactive Tier = "inactive"
	TierEconomy  Tier = "economy"
	TierStandard Tier = "standard"
	TierVIP      Tier = "vip"
)

// SubscriptionDuration срок действия одной подписки.
const SubscriptionDuration = 30 * 24 * time.Hour

type Subscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Level     Tier      `json:"lvl"`
	StartsAt  time.Time `json:"starts_at"`
	EndAt     time.Time `json:"end_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveAt проверяет полуинтервал [starts_at, end_at).
func (s *Subscription) ActiveAt(now time.Time) bool {
	return !now.Before(s.StartsAt) && now.Before(s.EndAt)
}
