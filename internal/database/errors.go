package database

import "errors"

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyClaimed задача уже взята другим исполнителем
	ErrAlreadyClaimed = errors.New("task already claimed")

	// ErrNotInWork задача не находится в работе
	ErrNotInWork = errors.New("task is not in work")

	// ErrNoActiveSubscription у клиента нет действующей подписки
	ErrNoActiveSubscription = errors.New("no active subscription")

	// ErrConcurrentModification конфликт версий при обновлении
	ErrConcurrentModification = errors.New("concurrent modification")
)
