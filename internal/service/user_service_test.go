package service

import (
	"context"
	"testing"

	"podryad/internal/events"
	"podryad/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_Register(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("RegularUser", func(t *testing.T) {
		mockRepo := new(MockRepository)
		bus := &capturingBus{}
		s := NewUserService(mockRepo, bus, []int64{999}, &logger)

		mockRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.TelegramID == 100 && u.Role == models.RoleClient
		})).Return(nil).Once()

		err := s.Register(ctx, &models.User{
			TelegramID: 100,
			FullName:   "Василий Петров",
			Phone:      "+79123456789",
			Role:       models.RoleClient,
		})
		assert.NoError(t, err)
		assert.Contains(t, bus.published(), events.EventUserRegistered)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ConfiguredManager", func(t *testing.T) {
		mockRepo := new(MockRepository)
		s := NewUserService(mockRepo, nil, []int64{100}, &logger)

		mockRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleManager
		})).Return(nil).Once()

		// Роль из диалога перекрывается списком менеджеров.
		err := s.Register(ctx, &models.User{TelegramID: 100, Role: models.RoleWorker})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_IsManager(t *testing.T) {
	logger := zerolog.Nop()
	s := NewUserService(new(MockRepository), nil, []int64{1, 2}, &logger)

	assert.True(t, s.IsManager(1))
	assert.True(t, s.IsManager(2))
	assert.False(t, s.IsManager(3))
}

func TestUserService_ByTelegramID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	mockRepo := new(MockRepository)
	s := NewUserService(mockRepo, nil, nil, &logger)

	expected := &models.User{ID: 1, TelegramID: 100, Role: models.RoleWorker}
	mockRepo.On("GetUserByTelegramID", ctx, int64(100)).Return(expected, nil).Once()

	user, err := s.ByTelegramID(ctx, 100)
	assert.NoError(t, err)
	assert.Equal(t, expected, user)
	mockRepo.AssertExpectations(t)
}
