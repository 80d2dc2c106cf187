package dialog

import (
	"podryad/internal/models"
)

// Menu ролевое меню, запрошенное пользователем.
type Menu int

const (
	MenuClient Menu = iota
	MenuWorker
	MenuManager
)

// Decision результат проверки доступа. При отказе Reason объясняет
// причину, а диалог возвращает пользователя к выбору роли.
type Decision struct {
	Allowed   bool
	NextState string
	Reason    string
}

// Authorize чистая функция без побочных эффектов: по сохранённой роли
// и запрошенному меню решает, куда вести пользователя. Меню клиента
// доступно любому онбордированному пользователю, меню исполнителя и
// менеджера требуют соответствующей роли.
func Authorize(role models.Role, menu Menu) Decision {
	switch menu {
	case MenuClient:
		return Decision{Allowed: true, NextState: StateClientMenu}
	case MenuWorker:
		if role == models.RoleWorker {
			return Decision{Allowed: true, NextState: StateWorkerMenu}
		}
		return Decision{Reason: "вы не зарегистрированы как исполнитель"}
	case MenuManager:
		if role == models.RoleManager || role == models.RoleAdmin {
			return Decision{Allowed: true, NextState: StateManagerMenu}
		}
		return Decision{Reason: "вы не менеджер"}
	}
	return Decision{Reason: "неизвестное меню"}
}
