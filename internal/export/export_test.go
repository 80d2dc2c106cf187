package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"podryad/internal/database"
	"podryad/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) (*Service, *database.DB) {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, &logger), db
}

func TestTasksReport(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	client := &models.User{TelegramID: 1, FullName: "Иван Заказчиков", Phone: "+79990000001", Role: models.RoleClient}
	require.NoError(t, db.CreateUser(ctx, client))
	client, err := db.GetUserByTelegramID(ctx, 1)
	require.NoError(t, err)

	worker := &models.User{TelegramID: 2, FullName: "Пётр Исполнителев", Phone: "+79990000002", Role: models.RoleWorker}
	require.NoError(t, db.CreateUser(ctx, worker))
	worker, err = db.GetUserByTelegramID(ctx, 2)
	require.NoError(t, err)

	task := &models.Task{ClientID: client.ID, Status: models.TaskStatusWaiting, Text: "покрасить забор", CreatedAt: time.Now()}
	require.NoError(t, db.CreateTask(ctx, task))
	require.NoError(t, db.ClaimTask(ctx, task.ID, worker.ID))

	data, err := s.TasksReport(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Задачи")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Статус", rows[0][1])
	assert.Equal(t, "В работе", rows[1][1])
	assert.Equal(t, "Иван Заказчиков", rows[1][2])
	assert.Equal(t, "Пётр Исполнителев", rows[1][3])
}

func TestUsersReport(t *testing.T) {
	s, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, &models.User{TelegramID: 1, FullName: "Иван Иванов", Phone: "+79990000001", Role: models.RoleManager}))

	data, err := s.UsersReport(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Пользователи")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Иван Иванов", rows[1][2])
	assert.Equal(t, "Менеджер", rows[1][4])
}
