package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"podryad/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(zerolog.NewConsoleWriter())
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUsers_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &models.User{
		TelegramID: 100,
		Username:   "ivan",
		FullName:   "Иван Петров",
		Phone:      "+79123456789",
	}
	require.NoError(t, db.CreateUser(ctx, user))
	assert.NotZero(t, user.ID)

	got, err := db.GetUserByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "Иван Петров", got.FullName)
	assert.Equal(t, models.RoleUnassigned, got.Role)

	_, err = db.GetUserByTelegramID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUsers_UpsertKeepsRole(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &models.User{TelegramID: 100, FullName: "Иван Петров", Phone: "+79123456789"}
	require.NoError(t, db.CreateUser(ctx, user))
	require.NoError(t, db.UpdateUserRole(ctx, 100, models.RoleWorker))

	// Повторная регистрация обновляет профиль, но не сбрасывает роль.
	again := &models.User{TelegramID: 100, FullName: "Иван П.", Phone: "+79123456780"}
	require.NoError(t, db.CreateUser(ctx, again))

	got, err := db.GetUserByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, models.RoleWorker, got.Role)
	assert.Equal(t, "Иван П.", got.FullName)

	// Повторный апсерт возвращает тот же id, а не нулевой.
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, got.ID, again.ID)
	assert.NotZero(t, again.ID)
}

func TestUsers_UpdateRoleNotFound(t *testing.T) {
	db := newTestDB(t)
	err := db.UpdateUserRole(context.Background(), 12345, models.RoleManager)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriptions_ActiveWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	sub := &models.Subscription{
		UserID:   1,
		Level:    models.TierStandard,
		StartsAt: start,
		EndAt:    start.Add(models.SubscriptionDuration),
	}
	require.NoError(t, db.CreateSubscription(ctx, sub))
	assert.NotZero(t, sub.ID)

	active, err := db.HasActiveSubscription(ctx, 1, start.Add(29*24*time.Hour))
	require.NoError(t, err)
	assert.True(t, active)

	active, err = db.HasActiveSubscription(ctx, 1, start.Add(31*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, active)

	// Граница полуинтервала: ровно end_at подписка уже не действует.
	active, err = db.HasActiveSubscription(ctx, 1, sub.EndAt)
	require.NoError(t, err)
	assert.False(t, active)

	subs, err := db.ActiveSubscriptions(ctx, 1, start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, models.TierStandard, subs[0].Level)
}

func TestTaskMessages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	task := &models.Task{ClientID: 1, Text: "Починить кран"}
	require.NoError(t, db.CreateTask(ctx, task))

	msg := &TaskMessage{TaskID: task.ID, SenderID: 1, Text: "Когда сможете приступить?"}
	require.NoError(t, db.CreateTaskMessage(ctx, msg))

	messages, err := db.ListTaskMessages(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Когда сможете приступить?", messages[0].Text)
}
