package service

import (
	"context"
	"testing"
	"time"

	"podryad/internal/events"
	"podryad/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testPrices() map[string]int64 {
	return map[string]int64{
		string(models.TierEconomy):  500,
		string(models.TierStandard): 1000,
		string(models.TierVIP):      2000,
	}
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mockRepo := new(MockRepository)
	bus := &capturingBus{}
	s := NewSubscriptionService(mockRepo, bus, testPrices(), &logger)

	mockRepo.On("CreateSubscription", ctx, mock.MatchedBy(func(sub *models.Subscription) bool {
		return sub.UserID == 10 &&
			sub.Level == models.TierStandard &&
			sub.StartsAt.Equal(now) &&
			sub.EndAt.Equal(now.Add(30*24*time.Hour))
	})).Return(nil).Once()

	sub, err := s.Subscribe(ctx, 10, models.TierStandard, now)
	assert.NoError(t, err)
	assert.True(t, sub.ActiveAt(now))
	// Правая граница окна не входит в период действия.
	assert.False(t, sub.ActiveAt(sub.EndAt))
	assert.Contains(t, bus.published(), events.EventSubscriptionCreated)
	mockRepo.AssertExpectations(t)
}

func TestSubscriptionService_Price(t *testing.T) {
	logger := zerolog.Nop()
	s := NewSubscriptionService(new(MockRepository), nil, testPrices(), &logger)

	price, ok := s.Price(models.TierEconomy)
	assert.True(t, ok)
	assert.Equal(t, int64(500), price)

	price, ok = s.Price(models.TierVIP)
	assert.True(t, ok)
	assert.Equal(t, int64(2000), price)

	_, ok = s.Price(models.TierInactive)
	assert.False(t, ok)

	_, ok = s.Price(models.Tier("gold"))
	assert.False(t, ok)
}

func TestSubscriptionService_HasActive(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	now := time.Now()

	mockRepo := new(MockRepository)
	s := NewSubscriptionService(mockRepo, nil, testPrices(), &logger)

	mockRepo.On("HasActiveSubscription", ctx, int64(10), now).Return(true, nil).Once()

	ok, err := s.HasActive(ctx, 10, now)
	assert.NoError(t, err)
	assert.True(t, ok)
	mockRepo.AssertExpectations(t)
}
