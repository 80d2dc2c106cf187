package dialog

import (
	"errors"
	"fmt"

	"podryad/internal/database"
	"podryad/internal/models"
)

const (
	msgAgreement = "Добро пожаловать в сервис подряда!\n\n" +
		"Для работы с ботом нужно принять условия обработки персональных данных."
	msgAskName       = "Как вас зовут? Введите имя и фамилию."
	msgBadName       = "⚠️ Пожалуйста, введите имя и фамилию через пробел."
	msgAskPhone      = "Укажите номер телефона или поделитесь контактом."
	msgBadPhone      = "⚠️ Не удалось распознать номер. Введите телефон в формате +7 912 345 67 89."
	msgChooseRole    = "Кем вы хотите работать в сервисе?"
	msgCancelled     = "Действие отменено. Отправьте /start, чтобы продолжить."
	msgInternalError = "❌ Произошла ошибка при обработке вашего запроса. Пожалуйста, попробуйте позже."

	msgClientMenu        = "Меню заказчика. Выберите действие:"
	msgSubscriptionsMenu = "Подписки. Выберите действие:"
	msgChooseTier        = "Выберите тариф подписки:"
	msgAskTaskText       = "Опишите задачу одним сообщением."
	msgTaskCreated       = "✅ Задача создана и отправлена исполнителям."
	msgNoSubscription    = "⚠️ Для размещения задач нужна активная подписка. Оформите её в разделе «Подписки»."
	msgNoOwnTasks        = "У вас пока нет задач."
	msgAskComment        = "Введите комментарий к задаче."
	msgCommentSaved      = "✅ Комментарий сохранён."

	msgWorkerMenu       = "Меню исполнителя. Выберите действие:"
	msgNoAvailableTasks = "Свободных задач сейчас нет."
	msgNoAssignedTasks  = "У вас нет взятых задач."
	msgTaskClaimed      = "✅ Задача закреплена за вами."
	msgTaskGone         = "⚠️ Задача уже занята или недоступна. Выберите другую из списка."
	msgTaskCompleted    = "✅ Задача отмечена выполненной."

	msgManagerMenu      = "Меню менеджера. Выберите действие:"
	msgNoWaitingTasks   = "Нераспределённых задач нет."
	msgIdleAcknowledged = "Готово. Отправьте /start, чтобы открыть меню."
)

// errorMessage переводит доменные ошибки в понятный пользователю
// текст. Конфликт одновременного взятия задачи штатная ситуация, а не
// сбой системы.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, database.ErrAlreadyClaimed), errors.Is(err, database.ErrNotFound):
		return msgTaskGone
	case errors.Is(err, database.ErrNoActiveSubscription):
		return msgNoSubscription
	case errors.Is(err, database.ErrNotInWork):
		return "⚠️ Задача не в работе, завершить её нельзя."
	case errors.Is(err, database.ErrConcurrentModification):
		return "⚠️ Данные изменились, попробуйте ещё раз."
	}
	return msgInternalError
}

func taskStatusLabel(status string) string {
	switch status {
	case models.TaskStatusWaiting:
		return "ожидает исполнителя"
	case models.TaskStatusInWork:
		return "в работе"
	case models.TaskStatusDone:
		return "выполнена"
	}
	return string(status)
}

func tierLabel(tier models.Tier) string {
	switch tier {
	case models.TierEconomy:
		return "Эконом"
	case models.TierStandard:
		return "Стандарт"
	case models.TierVIP:
		return "VIP"
	}
	return string(tier)
}

func taskLine(task *models.Task) string {
	text := task.Text
	const maxPreview = 48
	if len([]rune(text)) > maxPreview {
		text = string([]rune(text)[:maxPreview]) + "…"
	}
	return fmt.Sprintf("#%d · %s · %s", task.ID, taskStatusLabel(task.Status), text)
}
