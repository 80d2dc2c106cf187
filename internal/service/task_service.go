package service

import (
	"context"
	"errors"
	"time"

	"podryad/internal/database"
	"podryad/internal/domain"
	"podryad/internal/events"
	"podryad/internal/models"

	"github.com/rs/zerolog"
)

// TaskService жизненный цикл задач: создание с проверкой подписки,
// взятие в работу одним исполнителем и завершение.
type TaskService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewTaskService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *TaskService) Create(ctx context.Context, clientID int64, text string, now time.Time) (*models.Task, error) {
	task := &models.Task{
		ClientID:  clientID,
		Status:    models.TaskStatusWaiting,
		Text:      text,
		CreatedAt: now,
	}

	// Проверка подписки и вставка идут одной транзакцией, иначе между
	// проверкой и вставкой подписка может истечь.
	if err := s.repo.CreateTaskWithSubscriptionCheck(ctx, task, now); err != nil {
		return nil, err
	}

	s.publishTaskEvent(events.EventTaskCreated, task)

	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.GetTask(ctx, id)
}

// Claim пытается назначить задачу исполнителю. При проигрыше гонки
// возвращает database.ErrAlreadyClaimed и публикует событие конфликта.
func (s *TaskService) Claim(ctx context.Context, taskID, workerID int64) error {
	err := s.repo.ClaimTask(ctx, taskID, workerID)
	if err != nil {
		if errors.Is(err, database.ErrAlreadyClaimed) {
			s.publishTaskEvent(events.EventTaskClaimConflict, &models.Task{
				ID:     taskID,
				Status: models.TaskStatusInWork,
			})
		}
		return err
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err == nil {
		s.publishTaskEvent(events.EventTaskClaimed, task)
	}

	return nil
}

func (s *TaskService) Complete(ctx context.Context, taskID int64) error {
	if err := s.repo.CompleteTask(ctx, taskID); err != nil {
		return err
	}

	task, err := s.repo.GetTask(ctx, taskID)
	if err == nil {
		s.publishTaskEvent(events.EventTaskCompleted, task)
	}

	return nil
}

func (s *TaskService) ListAvailable(ctx context.Context) ([]*models.Task, error) {
	return s.repo.ListWaitingTasks(ctx)
}

func (s *TaskService) ListAssigned(ctx context.Context, workerID int64) ([]*models.Task, error) {
	return s.repo.ListTasksByWorker(ctx, workerID)
}

func (s *TaskService) ListOwned(ctx context.Context, clientID int64) ([]*models.Task, error) {
	return s.repo.ListTasksByClient(ctx, clientID)
}

func (s *TaskService) AddMessage(ctx context.Context, taskID, senderID int64, text string) error {
	msg := &database.TaskMessage{
		TaskID:    taskID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	return s.repo.CreateTaskMessage(ctx, msg)
}

func (s *TaskService) Messages(ctx context.Context, taskID int64) ([]*database.TaskMessage, error) {
	return s.repo.ListTaskMessages(ctx, taskID)
}

func (s *TaskService) publishTaskEvent(eventType string, task *models.Task) {
	if s.eventBus == nil {
		return
	}

	payload := events.TaskEventPayload{
		TaskID:   task.ID,
		ClientID: task.ClientID,
		Status:   string(task.Status),
	}
	if task.WorkerID != nil {
		payload.WorkerID = *task.WorkerID
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("task_id", task.ID).Msg("publish event error")
	}
}
