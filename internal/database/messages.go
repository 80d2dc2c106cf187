package database

import (
	"context"
	"fmt"
	"time"
)

// TaskMessage комментарий участника к задаче.
type TaskMessage struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	SenderID  int64     `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) CreateTaskMessage(ctx context.Context, msg *TaskMessage) error {
	query := `INSERT INTO task_messages (task_id, sender_id, text, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, msg.TaskID, msg.SenderID, msg.Text, now)
	if err != nil {
		return fmt.Errorf("failed to create task message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	msg.ID = id
	msg.CreatedAt = now
	return nil
}

func (db *DB) ListTaskMessages(ctx context.Context, taskID int64) ([]*TaskMessage, error) {
	query := `SELECT id, task_id, sender_id, text, created_at
              FROM task_messages WHERE task_id = ? ORDER BY created_at ASC, id ASC`
	rows, err := db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task messages: %w", err)
	}
	defer rows.Close()

	var messages []*TaskMessage
	for rows.Next() {
		msg := &TaskMessage{}
		if err := rows.Scan(&msg.ID, &msg.TaskID, &msg.SenderID, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
