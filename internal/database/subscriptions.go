package database

import (
	"context"
	"fmt"
	"time"

	"podryad/internal/models"
)

// CreateSubscription добавляет новую запись подписки. Записи неизменяемы:
// продление это всегда новая строка, старые не трогаем.
func (db *DB) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	query := `INSERT INTO subscriptions (user_id, lvl, starts_at, end_at, created_at)
              VALUES (?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		sub.UserID,
		string(sub.Level),
		sub.StartsAt,
		sub.EndAt,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	sub.ID = id
	sub.CreatedAt = now
	return nil
}

// ActiveSubscriptions подписки пользователя, действующие в момент now
// (полуинтервал [starts_at, end_at)).
func (db *DB) ActiveSubscriptions(ctx context.Context, userID int64, now time.Time) ([]*models.Subscription, error) {
	query := `SELECT id, user_id, lvl, starts_at, end_at, created_at
              FROM subscriptions
              WHERE user_id = ? AND starts_at <= ? AND end_at > ?
              ORDER BY starts_at ASC`
	rows, err := db.QueryContext(ctx, query, userID, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		var lvl string
		err := rows.Scan(&sub.ID, &sub.UserID, &lvl, &sub.StartsAt, &sub.EndAt, &sub.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		sub.Level = models.Tier(lvl)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (db *DB) HasActiveSubscription(ctx context.Context, userID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM subscriptions WHERE user_id = ? AND starts_at <= ? AND end_at > ?`
	var count int
	if err := db.QueryRowContext(ctx, query, userID, now, now).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	return count > 0, nil
}
