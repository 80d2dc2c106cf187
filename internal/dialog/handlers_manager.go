package dialog

import (
	"context"
	"strings"
)

func (d *Dispatcher) registerManager() {
	d.onButton(StateManagerMenu, TokenManagerUnassigned, d.showUnassignedTasks)
	d.onButton(StateManagerMenu, TokenManagerExportTasks, d.handleExportTasks)
	d.onButton(StateManagerMenu, TokenManagerExportUsers, d.handleExportUsers)
	d.onButton(StateManagerMenu, TokenBack, d.showRoleMenu)
	d.onDefault(StateManagerMenu, d.showManagerMenu)
}

func (d *Dispatcher) requireManager(f *flow) error {
	user, err := f.requireUser()
	if err != nil {
		return err
	}
	if !Authorize(user.Role, MenuManager).Allowed {
		return errRoleDenied
	}
	return nil
}

func (d *Dispatcher) showManagerMenu(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateManagerMenu)
	return []Effect{SendMenu{
		Body: msgManagerMenu,
		Buttons: []Button{
			{Label: "📥 Нераспределённые задачи", Token: TokenManagerUnassigned},
			{Label: "📊 Выгрузка задач", Token: TokenManagerExportTasks},
			{Label: "👥 Выгрузка пользователей", Token: TokenManagerExportUsers},
			{Label: "⬅️ Сменить роль", Token: TokenBack},
		},
	}}, nil
}

func (d *Dispatcher) showUnassignedTasks(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	if err := d.requireManager(f); err != nil {
		return nil, err
	}

	tasks, err := d.tasks.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	var body string
	if len(tasks) == 0 {
		body = msgNoWaitingTasks
	} else {
		var b strings.Builder
		b.WriteString("Ожидают исполнителя:\n")
		for _, task := range tasks {
			b.WriteString("• " + taskLine(task) + "\n")
		}
		body = b.String()
	}

	effects, _ := d.showManagerMenu(ctx, f, ev)
	return append([]Effect{SendText{Body: body}}, effects...), nil
}

func (d *Dispatcher) handleExportTasks(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	if err := d.requireManager(f); err != nil {
		return nil, err
	}

	data, err := d.exporter.TasksReport(ctx)
	if err != nil {
		return nil, err
	}

	effects, _ := d.showManagerMenu(ctx, f, ev)
	return append([]Effect{SendDocument{
		FileName: "tasks.xlsx",
		Caption:  "Выгрузка задач",
		Data:     data,
	}}, effects...), nil
}

func (d *Dispatcher) handleExportUsers(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	if err := d.requireManager(f); err != nil {
		return nil, err
	}

	data, err := d.exporter.UsersReport(ctx)
	if err != nil {
		return nil, err
	}

	effects, _ := d.showManagerMenu(ctx, f, ev)
	return append([]Effect{SendDocument{
		FileName: "users.xlsx",
		Caption:  "Выгрузка пользователей",
		Data:     data,
	}}, effects...), nil
}
