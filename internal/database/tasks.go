package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"podryad/internal/models"
)

func (db *DB) CreateTask(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (client_id, worker_id, status, text, created_at, end_at, version)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	result, err := db.ExecContext(ctx, query,
		task.ClientID,
		task.WorkerID,
		models.TaskStatusWaiting,
		task.Text,
		task.CreatedAt,
		task.EndAt,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id
	task.Status = models.TaskStatusWaiting
	task.Version = 1
	return nil
}

// CreateTaskWithSubscriptionCheck создаёт задачу только при действующей
// подписке клиента. Проверка и вставка выполняются в одной транзакции,
// чтобы истёкшая между чтением и записью подписка не пропустила задачу.
func (db *DB) CreateTaskWithSubscriptionCheck(ctx context.Context, task *models.Task, now time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var active int
	queryCount := `SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND starts_at <= ? AND end_at > ?`
	if err := tx.QueryRowContext(ctx, queryCount, task.ClientID, now, now).Scan(&active); err != nil {
		return fmt.Errorf("failed to check subscription in tx: %w", err)
	}
	if active == 0 {
		return ErrNoActiveSubscription
	}

	queryInsert := `INSERT INTO tasks (client_id, worker_id, status, text, created_at, end_at, version)
                    VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, queryInsert,
		task.ClientID,
		nil,
		models.TaskStatusWaiting,
		task.Text,
		now,
		task.EndAt,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	task.ID = id
	task.WorkerID = nil
	task.Status = models.TaskStatusWaiting
	task.CreatedAt = now
	task.Version = 1

	return tx.Commit()
}

func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT id, client_id, worker_id, status, text, created_at, end_at, version
              FROM tasks WHERE id = ?`
	var task models.Task
	var workerID sql.NullInt64
	var endAt sql.NullTime
	err := db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.ClientID, &workerID, &task.Status, &task.Text,
		&task.CreatedAt, &endAt, &task.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if workerID.Valid {
		task.WorkerID = &workerID.Int64
	}
	if endAt.Valid {
		task.EndAt = &endAt.Time
	}
	return &task, nil
}

// ClaimTask атомарно назначает исполнителя на ожидающую задачу.
// Единственный легальный путь мутации worker_id: UPDATE с условием по
// статусу гарантирует, что из гонки исполнителей победит ровно один.
func (db *DB) ClaimTask(ctx context.Context, taskID, workerID int64) error {
	query := `UPDATE tasks
              SET worker_id = ?, status = ?, version = version + 1
              WHERE id = ? AND status = ? AND worker_id IS NULL`
	result, err := db.ExecContext(ctx, query, workerID, models.TaskStatusInWork, taskID, models.TaskStatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to claim task: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	// Ни одной строки: либо задачи нет, либо её уже взяли.
	if _, err := db.GetTask(ctx, taskID); err != nil {
		return err
	}
	return ErrAlreadyClaimed
}

// CompleteTask переводит задачу из in_work в done. Обратных переходов нет.
func (db *DB) CompleteTask(ctx context.Context, taskID int64) error {
	query := `UPDATE tasks SET status = ?, end_at = ?, version = version + 1
              WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, models.TaskStatusDone, time.Now(), taskID, models.TaskStatusInWork)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}

	if _, err := db.GetTask(ctx, taskID); err != nil {
		return err
	}
	return ErrNotInWork
}

// ListWaitingTasks все свободные задачи, старые первыми.
func (db *DB) ListWaitingTasks(ctx context.Context) ([]*models.Task, error) {
	query := `SELECT id, client_id, worker_id, status, text, created_at, end_at, version
              FROM tasks WHERE status = ? ORDER BY created_at ASC, id ASC`
	return db.queryTasks(ctx, query, models.TaskStatusWaiting)
}

// ListTasksByWorker задачи исполнителя в любом статусе.
func (db *DB) ListTasksByWorker(ctx context.Context, workerID int64) ([]*models.Task, error) {
	query := `SELECT id, client_id, worker_id, status, text, created_at, end_at, version
              FROM tasks WHERE worker_id = ? ORDER BY created_at ASC, id ASC`
	return db.queryTasks(ctx, query, workerID)
}

// ListTasksByClient задачи, созданные клиентом.
func (db *DB) ListTasksByClient(ctx context.Context, clientID int64) ([]*models.Task, error) {
	query := `SELECT id, client_id, worker_id, status, text, created_at, end_at, version
              FROM tasks WHERE client_id = ? ORDER BY created_at ASC, id ASC`
	return db.queryTasks(ctx, query, clientID)
}

func (db *DB) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		var workerID sql.NullInt64
		var endAt sql.NullTime
		err := rows.Scan(
			&task.ID, &task.ClientID, &workerID, &task.Status, &task.Text,
			&task.CreatedAt, &endAt, &task.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if workerID.Valid {
			task.WorkerID = &workerID.Int64
		}
		if endAt.Valid {
			task.EndAt = &endAt.Time
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
