package export

import (
	"bytes"
	"context"
	"fmt"

	"podryad/internal/domain"
	"podryad/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Service строит xlsx-отчёты по задачам и пользователям. Файл
// возвращается байтами, на диск ничего не пишется: адаптер транспорта
// отправляет его документом.
type Service struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewService(repo domain.Repository, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// TasksReport все три пула задач на одном листе: ожидающие, в работе
// и выполненные.
func (s *Service) TasksReport(ctx context.Context) ([]byte, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting users: %w", err)
	}
	byID := make(map[int64]*models.User, len(users))
	tasks := make([]*models.Task, 0)
	for _, u := range users {
		byID[u.ID] = u
		owned, err := s.repo.ListTasksByClient(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("error getting tasks: %w", err)
		}
		tasks = append(tasks, owned...)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Задачи"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	s.writeHeader(f, sheetName, []string{"№", "Статус", "Заказчик", "Исполнитель", "Создана", "Завершена", "Описание"})

	row := 2
	for _, task := range tasks {
		clientName := ""
		if client, ok := byID[task.ClientID]; ok {
			clientName = client.FullName
		}
		workerName := ""
		if task.WorkerID != nil {
			if worker, ok := byID[*task.WorkerID]; ok {
				workerName = worker.FullName
			}
		}
		endAt := ""
		if task.EndAt != nil {
			endAt = task.EndAt.Format("02.01.2006 15:04")
		}

		s.writeRow(f, sheetName, row, []interface{}{
			task.ID,
			statusLabel(task.Status),
			clientName,
			workerName,
			task.CreatedAt.Format("02.01.2006 15:04"),
			endAt,
			task.Text,
		})
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "F", 20)
	_ = f.SetColWidth(sheetName, "G", "G", 60)

	return s.render(f)
}

// UsersReport список пользователей с ролями и телефонами.
func (s *Service) UsersReport(ctx context.Context) ([]byte, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting users: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Пользователи"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	s.writeHeader(f, sheetName, []string{"№", "Telegram ID", "Имя", "Телефон", "Роль", "Зарегистрирован"})

	for i, user := range users {
		s.writeRow(f, sheetName, i+2, []interface{}{
			user.ID,
			user.TelegramID,
			user.FullName,
			user.Phone,
			roleLabel(user.Role),
			user.CreatedAt.Format("02.01.2006"),
		})
	}

	_ = f.SetColWidth(sheetName, "A", "B", 14)
	_ = f.SetColWidth(sheetName, "C", "F", 24)

	return s.render(f)
}

func (s *Service) writeHeader(f *excelize.File, sheetName string, titles []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for col, title := range titles {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func (s *Service) writeRow(f *excelize.File, sheetName string, row int, values []interface{}) {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		_ = f.SetCellValue(sheetName, cell, value)
	}
}

func (s *Service) render(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	s.logger.Debug().Int("size_bytes", buf.Len()).Msg("xlsx report rendered")
	return buf.Bytes(), nil
}

func statusLabel(status string) string {
	switch status {
	case models.TaskStatusWaiting:
		return "Ожидает"
	case models.TaskStatusInWork:
		return "В работе"
	case models.TaskStatusDone:
		return "Выполнена"
	}
	return status
}

func roleLabel(role models.Role) string {
	switch role {
	case models.RoleClient:
		return "Заказчик"
	case models.RoleWorker:
		return "Исполнитель"
	case models.RoleManager:
		return "Менеджер"
	case models.RoleAdmin:
		return "Администратор"
	}
	return "Не выбрана"
}
