package service

import (
	"context"
	"time"

	"podryad/internal/domain"
	"podryad/internal/events"
	"podryad/internal/models"

	"github.com/rs/zerolog"
)

// SubscriptionService оформление подписок и ценовая таблица тарифов.
type SubscriptionService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	prices   map[models.Tier]int64
	logger   *zerolog.Logger
}

func NewSubscriptionService(repo domain.Repository, eventBus domain.EventPublisher, prices map[string]int64, logger *zerolog.Logger) *SubscriptionService {
	priceTable := make(map[models.Tier]int64, len(prices))
	for tier, price := range prices {
		priceTable[models.Tier(tier)] = price
	}

	return &SubscriptionService{
		repo:     repo,
		eventBus: eventBus,
		prices:   priceTable,
		logger:   logger,
	}
}

// Subscribe создаёт подписку с окном [now, now+30 дней). Существующие
// подписки не продлеваются и не перезаписываются, каждая строка
// неизменяема.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID int64, tier models.Tier, now time.Time) (*models.Subscription, error) {
	sub := &models.Subscription{
		UserID:    userID,
		Level:     tier,
		StartsAt:  now,
		EndAt:     now.Add(models.SubscriptionDuration),
		CreatedAt: now,
	}

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.SubscriptionEventPayload{
			SubscriptionID: sub.ID,
			UserID:         sub.UserID,
			Level:          string(sub.Level),
			StartsAt:       sub.StartsAt,
			EndAt:          sub.EndAt,
		}
		if err := s.eventBus.PublishJSON(events.EventSubscriptionCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("user_id", userID).Msg("publish event error")
		}
	}

	return sub, nil
}

func (s *SubscriptionService) Active(ctx context.Context, userID int64, now time.Time) ([]*models.Subscription, error) {
	return s.repo.ActiveSubscriptions(ctx, userID, now)
}

func (s *SubscriptionService) HasActive(ctx context.Context, userID int64, now time.Time) (bool, error) {
	return s.repo.HasActiveSubscription(ctx, userID, now)
}

// Price цена тарифа в рублях. Второе значение false для неизвестного
// тарифа и для inactive.
func (s *SubscriptionService) Price(tier models.Tier) (int64, bool) {
	price, ok := s.prices[tier]
	return price, ok
}
