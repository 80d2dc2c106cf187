package models

import "time"

// Role роль пользователя в маркетплейсе задач.
type Role string

const (
	RoleUnassigned Role = ""
	RoleClient     Role = "client"
	RoleWorker     Role = "worker"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"` // Уникальный ID Telegram
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"` // Имя и фамилия, введённые при регистрации
	Phone      string    `json:"phone"`     // Телефон в формате E.164
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
