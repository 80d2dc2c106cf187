package service

import (
	"context"

	"podryad/internal/domain"
	"podryad/internal/events"
	"podryad/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo        domain.Repository
	eventBus    domain.EventPublisher
	managersMap map[int64]bool
	logger      *zerolog.Logger
}

func NewUserService(repo domain.Repository, eventBus domain.EventPublisher, managers []int64, logger *zerolog.Logger) *UserService {
	managersMap := make(map[int64]bool)
	for _, id := range managers {
		managersMap[id] = true
	}

	return &UserService{
		repo:        repo,
		eventBus:    eventBus,
		managersMap: managersMap,
		logger:      logger,
	}
}

func (s *UserService) IsManager(telegramID int64) bool {
	return s.managersMap[telegramID]
}

// Register сохраняет пользователя после онбординга. Аккаунты из списка
// managers в конфиге сразу получают роль менеджера независимо от
// выбранной в диалоге.
func (s *UserService) Register(ctx context.Context, user *models.User) error {
	if s.IsManager(user.TelegramID) {
		user.Role = models.RoleManager
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return err
	}

	if s.eventBus != nil {
		payload := map[string]interface{}{
			"telegram_id": user.TelegramID,
			"role":        string(user.Role),
		}
		if err := s.eventBus.PublishJSON(events.EventUserRegistered, payload); err != nil {
			s.logger.Error().Err(err).Int64("telegram_id", user.TelegramID).Msg("publish event error")
		}
	}

	return nil
}

func (s *UserService) ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.repo.GetUserByTelegramID(ctx, telegramID)
}

func (s *UserService) All(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}
