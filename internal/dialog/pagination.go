package dialog

import (
	"fmt"
	"strconv"

	"podryad/internal/models"
)

// taskListMenu строит страницу списка задач: по кнопке на задачу,
// навигация и кнопка возврата.
func (d *Dispatcher) taskListMenu(title string, tasks []*models.Task, page int, itemToken Token) SendMenu {
	pageSize := d.pageSize
	totalPages := (len(tasks) + pageSize - 1) / pageSize
	if page >= totalPages && totalPages > 0 {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}

	start := page * pageSize
	end := start + pageSize
	if end > len(tasks) {
		end = len(tasks)
	}

	body := title
	if totalPages > 1 {
		body = fmt.Sprintf("%s\n\nСтраница %d из %d", title, page+1, totalPages)
	}

	var buttons []Button
	for _, task := range tasks[start:end] {
		buttons = append(buttons, Button{
			Label:   taskLine(task),
			Token:   itemToken,
			Payload: strconv.FormatInt(task.ID, 10),
		})
	}

	if page > 0 {
		buttons = append(buttons, Button{Label: "⬅️ Назад", Token: TokenListPage, Payload: strconv.Itoa(page - 1)})
	}
	if end < len(tasks) {
		buttons = append(buttons, Button{Label: "Вперед ➡️", Token: TokenListPage, Payload: strconv.Itoa(page + 1)})
	}
	buttons = append(buttons, Button{Label: "⬅️ В меню", Token: TokenBack})

	return SendMenu{Body: body, Buttons: buttons}
}

func parsePage(payload string) int {
	page, err := strconv.Atoi(payload)
	if err != nil || page < 0 {
		return 0
	}
	return page
}

func parseID(payload string) int64 {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
