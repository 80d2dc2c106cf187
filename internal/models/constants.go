package models

const (
	// DefaultRedisTTL время жизни состояния диалога в Redis
	DefaultRedisTTL = 24 * 60 * 60 // 24 часа в секундах

	// DefaultPaginationSize размер страницы списков задач
	DefaultPaginationSize = 8

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20

	// RateLimitWindow окно ограничения частоты сообщений
	RateLimitWindow = 60 // 1 минута в секундах

	// DefaultPhoneRegion регион разбора телефонных номеров по умолчанию
	DefaultPhoneRegion = "RU"

	// ParseModeMarkdown режим разметки исходящих сообщений
	ParseModeMarkdown = "Markdown"
)
