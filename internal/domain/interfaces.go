package domain

import (
	"context"
	"time"

	"podryad/internal/database"
	"podryad/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Repository контракт персистентного хранилища. Ядру диалога не важен
// движок: нужен get-by-id, create, update с оптимистичной проверкой
// (claim) и фильтрованные списки.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserRole(ctx context.Context, telegramID int64, role models.Role) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)

	CreateTask(ctx context.Context, task *models.Task) error
	CreateTaskWithSubscriptionCheck(ctx context.Context, task *models.Task, now time.Time) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ClaimTask(ctx context.Context, taskID, workerID int64) error
	CompleteTask(ctx context.Context, taskID int64) error
	ListWaitingTasks(ctx context.Context) ([]*models.Task, error)
	ListTasksByWorker(ctx context.Context, workerID int64) ([]*models.Task, error)
	ListTasksByClient(ctx context.Context, clientID int64) ([]*models.Task, error)

	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	ActiveSubscriptions(ctx context.Context, userID int64, now time.Time) ([]*models.Subscription, error)
	HasActiveSubscription(ctx context.Context, userID int64, now time.Time) (bool, error)

	CreateTaskMessage(ctx context.Context, msg *database.TaskMessage) error
	ListTaskMessages(ctx context.Context, taskID int64) ([]*database.TaskMessage, error)
}

// StateRepository низкоуровневое хранилище сессий диалога.
type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.UserState, error)
	SetState(ctx context.Context, state *models.UserState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager операции над сессией, которыми пользуется диспетчер.
type SessionManager interface {
	GetUserState(ctx context.Context, userID int64) (*models.UserState, error)
	SetUserState(ctx context.Context, userID int64, step string, data map[string]interface{}) error
	ClearUserState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// TaskService бизнес-операции над пулом задач.
type TaskService interface {
	Create(ctx context.Context, clientID int64, text string, now time.Time) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Claim(ctx context.Context, taskID, workerID int64) error
	Complete(ctx context.Context, taskID int64) error
	ListAvailable(ctx context.Context) ([]*models.Task, error)
	ListAssigned(ctx context.Context, workerID int64) ([]*models.Task, error)
	ListOwned(ctx context.Context, clientID int64) ([]*models.Task, error)
	AddMessage(ctx context.Context, taskID, senderID int64, text string) error
	Messages(ctx context.Context, taskID int64) ([]*database.TaskMessage, error)
}

// SubscriptionService операции подписок и ценовая таблица тарифов.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID int64, tier models.Tier, now time.Time) (*models.Subscription, error)
	Active(ctx context.Context, userID int64, now time.Time) ([]*models.Subscription, error)
	HasActive(ctx context.Context, userID int64, now time.Time) (bool, error)
	Price(tier models.Tier) (int64, bool)
}

// UserService операции над пользователями, доступные диалогу.
type UserService interface {
	Register(ctx context.Context, user *models.User) error
	ByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	All(ctx context.Context) ([]*models.User, error)
}
