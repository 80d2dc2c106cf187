package dialog

import (
	"context"
	"errors"
	"fmt"

	"podryad/internal/database"
	"podryad/internal/models"
)

func (d *Dispatcher) registerWorker() {
	d.onButton(StateWorkerMenu, TokenWorkerAvailable, d.showAvailableTasks)
	d.onButton(StateWorkerMenu, TokenWorkerOwnTasks, d.showWorkerOwnTasks)
	d.onButton(StateWorkerMenu, TokenBack, d.showRoleMenu)
	d.onDefault(StateWorkerMenu, d.showWorkerMenu)

	d.onButton(StateWorkerAvailableList, TokenTaskSelect, d.showWorkerTaskDetail)
	d.onButton(StateWorkerAvailableList, TokenListPage, d.availableTasksPage)
	d.onButton(StateWorkerAvailableList, TokenBack, d.showWorkerMenu)
	d.onDefault(StateWorkerAvailableList, d.showAvailableTasks)

	d.onButton(StateWorkerOwnList, TokenTaskSelect, d.showWorkerTaskDetail)
	d.onButton(StateWorkerOwnList, TokenListPage, d.workerOwnTasksPage)
	d.onButton(StateWorkerOwnList, TokenBack, d.showWorkerMenu)
	d.onDefault(StateWorkerOwnList, d.showWorkerOwnTasks)

	d.onButton(StateWorkerTaskDetail, TokenWorkerClaim, d.handleClaim)
	d.onButton(StateWorkerTaskDetail, TokenWorkerComplete, d.handleComplete)
	d.onButton(StateWorkerTaskDetail, TokenBack, d.showWorkerMenu)
	d.onDefault(StateWorkerTaskDetail, d.showWorkerMenu)
}

func (d *Dispatcher) requireWorker(f *flow) (*models.User, error) {
	user, err := f.requireUser()
	if err != nil {
		return nil, err
	}
	if !Authorize(user.Role, MenuWorker).Allowed {
		return nil, errRoleDenied
	}
	return user, nil
}

func (d *Dispatcher) showWorkerMenu(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateWorkerMenu)
	return []Effect{SendMenu{
		Body: msgWorkerMenu,
		Buttons: []Button{
			{Label: "🔍 Свободные задачи", Token: TokenWorkerAvailable},
			{Label: "🗂 Мои задачи", Token: TokenWorkerOwnTasks},
			{Label: "⬅️ Сменить роль", Token: TokenBack},
		},
	}}, nil
}

func (d *Dispatcher) showAvailableTasks(ctx context.Context, f *flow, _ Event) ([]Effect, error) {
	return d.availableTasksAt(ctx, f, 0)
}

func (d *Dispatcher) availableTasksPage(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	press, _ := ev.(ButtonPress)
	return d.availableTasksAt(ctx, f, parsePage(press.Payload))
}

func (d *Dispatcher) availableTasksAt(ctx context.Context, f *flow, page int) ([]Effect, error) {
	if _, err := d.requireWorker(f); err != nil {
		return nil, err
	}

	tasks, err := d.tasks.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	f.transition(StateWorkerAvailableList)
	f.State.Set(models.TempListPage, page)

	if len(tasks) == 0 {
		return []Effect{SendMenu{
			Body:    msgNoAvailableTasks,
			Buttons: []Button{{Label: "⬅️ В меню", Token: TokenBack}},
		}}, nil
	}

	return []Effect{d.taskListMenu("Свободные задачи:", tasks, page, TokenTaskSelect)}, nil
}

func (d *Dispatcher) showWorkerOwnTasks(ctx context.Context, f *flow, _ Event) ([]Effect, error) {
	return d.workerOwnTasksAt(ctx, f, 0)
}

func (d *Dispatcher) workerOwnTasksPage(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	press, _ := ev.(ButtonPress)
	return d.workerOwnTasksAt(ctx, f, parsePage(press.Payload))
}

func (d *Dispatcher) workerOwnTasksAt(ctx context.Context, f *flow, page int) ([]Effect, error) {
	user, err := d.requireWorker(f)
	if err != nil {
		return nil, err
	}

	tasks, err := d.tasks.ListAssigned(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	f.transition(StateWorkerOwnList)
	f.State.Set(models.TempListPage, page)

	if len(tasks) == 0 {
		return []Effect{SendMenu{
			Body:    msgNoAssignedTasks,
			Buttons: []Button{{Label: "⬅️ В меню", Token: TokenBack}},
		}}, nil
	}

	return []Effect{d.taskListMenu("Ваши задачи:", tasks, page, TokenTaskSelect)}, nil
}

func (d *Dispatcher) showWorkerTaskDetail(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := d.requireWorker(f)
	if err != nil {
		return nil, err
	}

	press, _ := ev.(ButtonPress)
	task, err := d.tasks.Get(ctx, parseID(press.Payload))
	if errors.Is(err, database.ErrNotFound) {
		effects, _ := d.showAvailableTasks(ctx, f, ev)
		return append([]Effect{SendText{Body: msgTaskGone}}, effects...), nil
	}
	if err != nil {
		return nil, err
	}

	f.transition(StateWorkerTaskDetail)
	f.State.Set(models.TempSelectedTaskID, task.ID)

	var buttons []Button
	switch {
	case task.Status == models.TaskStatusWaiting:
		buttons = append(buttons, Button{
			Label:   "🤝 Взять в работу",
			Token:   TokenWorkerClaim,
			Payload: press.Payload,
		})
	case task.Status == models.TaskStatusInWork && task.WorkerID != nil && *task.WorkerID == user.ID:
		buttons = append(buttons, Button{
			Label:   "✅ Завершить",
			Token:   TokenWorkerComplete,
			Payload: press.Payload,
		})
	}
	buttons = append(buttons, Button{Label: "⬅️ В меню", Token: TokenBack})

	return []Effect{SendMenu{
		Body:    d.renderTaskDetail(ctx, task),
		Buttons: buttons,
	}}, nil
}

// handleClaim единственная точка коммита взятия задачи. Проигравший
// гонку получает сообщение о занятости и свежий список, это не сбой.
func (d *Dispatcher) handleClaim(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := d.requireWorker(f)
	if err != nil {
		return nil, err
	}

	press, _ := ev.(ButtonPress)
	taskID := parseID(press.Payload)
	if taskID == 0 {
		taskID = f.State.GetInt64(models.TempSelectedTaskID)
	}

	err = d.tasks.Claim(ctx, taskID, user.ID)
	if errors.Is(err, database.ErrAlreadyClaimed) || errors.Is(err, database.ErrNotFound) {
		effects, _ := d.showAvailableTasks(ctx, f, ev)
		return append([]Effect{SendText{Body: msgTaskGone}}, effects...), nil
	}
	if err != nil {
		return nil, err
	}

	f.resetScratch()
	effects, err := d.workerOwnTasksAt(ctx, f, 0)
	if err != nil {
		return nil, err
	}
	return append([]Effect{SendText{
		Body: fmt.Sprintf("%s Задача #%d.", msgTaskClaimed, taskID),
	}}, effects...), nil
}

func (d *Dispatcher) handleComplete(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := d.requireWorker(f)
	if err != nil {
		return nil, err
	}

	press, _ := ev.(ButtonPress)
	taskID := parseID(press.Payload)
	if taskID == 0 {
		taskID = f.State.GetInt64(models.TempSelectedTaskID)
	}

	// Завершать можно только собственную задачу.
	task, err := d.tasks.Get(ctx, taskID)
	if err != nil || task.WorkerID == nil || *task.WorkerID != user.ID {
		effects, _ := d.showWorkerOwnTasks(ctx, f, ev)
		return append([]Effect{SendText{Body: msgTaskGone}}, effects...), nil
	}

	err = d.tasks.Complete(ctx, taskID)
	if errors.Is(err, database.ErrNotInWork) || errors.Is(err, database.ErrNotFound) {
		effects, _ := d.showWorkerOwnTasks(ctx, f, ev)
		return append([]Effect{SendText{Body: errorMessage(err)}}, effects...), nil
	}
	if err != nil {
		return nil, err
	}

	f.resetScratch()
	effects, err := d.workerOwnTasksAt(ctx, f, 0)
	if err != nil {
		return nil, err
	}
	return append([]Effect{SendText{
		Body: fmt.Sprintf("%s Задача #%d.", msgTaskCompleted, taskID),
	}}, effects...), nil
}
