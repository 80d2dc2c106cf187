package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"podryad/internal/database"
	"podryad/internal/models"
)

func (d *Dispatcher) registerClient() {
	d.onButton(StateClientMenu, TokenClientSubscriptions, d.showSubscriptionsMenu)
	d.onButton(StateClientMenu, TokenClientNewTask, d.showTaskCompose)
	d.onButton(StateClientMenu, TokenClientMyTasks, d.showClientTasks)
	d.onDefault(StateClientMenu, d.showClientMenu)

	d.onButton(StateSubscriptionsMenu, TokenSubscriptionStatus, d.showSubscriptionStatus)
	d.onButton(StateSubscriptionsMenu, TokenSubscriptionBuy, d.showTierMenu)
	d.onButton(StateSubscriptionsMenu, TokenBack, d.showClientMenu)
	d.onDefault(StateSubscriptionsMenu, d.showSubscriptionsMenu)

	d.onButton(StateSubscriptionTierMenu, TokenTierEconomy, d.handleTierChoice(models.TierEconomy))
	d.onButton(StateSubscriptionTierMenu, TokenTierStandard, d.handleTierChoice(models.TierStandard))
	d.onButton(StateSubscriptionTierMenu, TokenTierVIP, d.handleTierChoice(models.TierVIP))
	d.onButton(StateSubscriptionTierMenu, TokenBack, d.showSubscriptionsMenu)
	d.onDefault(StateSubscriptionTierMenu, d.showTierMenu)

	d.onButton(StatePaymentConfirm, TokenPayConfirm, d.handlePayment)
	d.onButton(StatePaymentConfirm, TokenBack, d.showTierMenu)
	d.onDefault(StatePaymentConfirm, d.showPaymentConfirm)

	d.onButton(StateTaskComposeMenu, TokenTaskWrite, d.askTaskText)
	d.onButton(StateTaskComposeMenu, TokenBack, d.showClientMenu)
	d.onDefault(StateTaskComposeMenu, d.showTaskCompose)

	d.onText(StateAwaitingTaskText, d.handleTaskText)
	d.onDefault(StateAwaitingTaskText, prompt(msgAskTaskText))

	d.onButton(StateClientTaskList, TokenTaskSelect, d.showClientTaskDetail)
	d.onButton(StateClientTaskList, TokenListPage, d.clientTasksPage)
	d.onButton(StateClientTaskList, TokenBack, d.showClientMenu)
	d.onDefault(StateClientTaskList, d.showClientTasks)

	d.onButton(StateClientTaskDetail, TokenTaskComment, d.askTaskComment)
	d.onButton(StateClientTaskDetail, TokenBack, d.showClientTasks)
	d.onDefault(StateClientTaskDetail, d.showClientTasks)

	d.onText(StateAwaitingTaskComment, d.handleTaskComment)
	d.onDefault(StateAwaitingTaskComment, prompt(msgAskComment))
}

func (d *Dispatcher) showClientMenu(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	if _, err := f.requireUser(); err != nil {
		return nil, err
	}

	f.transition(StateClientMenu)
	return []Effect{SendMenu{
		Body: msgClientMenu,
		Buttons: []Button{
			{Label: "💳 Подписки", Token: TokenClientSubscriptions},
			{Label: "📝 Новая задача", Token: TokenClientNewTask},
			{Label: "📂 Мои задачи", Token: TokenClientMyTasks},
		},
	}}, nil
}

func (d *Dispatcher) showSubscriptionsMenu(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateSubscriptionsMenu)
	return []Effect{SendMenu{
		Body: msgSubscriptionsMenu,
		Buttons: []Button{
			{Label: "ℹ️ Моя подписка", Token: TokenSubscriptionStatus},
			{Label: "🛒 Оформить подписку", Token: TokenSubscriptionBuy},
			{Label: "⬅️ В меню", Token: TokenBack},
		},
	}}, nil
}

func (d *Dispatcher) showSubscriptionStatus(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := f.requireUser()
	if err != nil {
		return nil, err
	}

	subs, err := d.subscriptions.Active(ctx, user.ID, d.now())
	if err != nil {
		return nil, err
	}

	var body string
	if len(subs) == 0 {
		body = "Активной подписки нет."
	} else {
		var b strings.Builder
		b.WriteString("Активные подписки:\n")
		for _, sub := range subs {
			fmt.Fprintf(&b, "• %s, действует до %s\n", tierLabel(sub.Level), sub.EndAt.Format("02.01.2006"))
		}
		body = b.String()
	}

	effects, _ := d.showSubscriptionsMenu(ctx, f, ev)
	return append([]Effect{SendText{Body: body}}, effects...), nil
}

func (d *Dispatcher) showTierMenu(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateSubscriptionTierMenu)

	buttons := make([]Button, 0, 4)
	for _, tier := range []struct {
		t     models.Tier
		token Token
	}{
		{models.TierEconomy, TokenTierEconomy},
		{models.TierStandard, TokenTierStandard},
		{models.TierVIP, TokenTierVIP},
	} {
		label := tierLabel(tier.t)
		if price, ok := d.subscriptions.Price(tier.t); ok {
			label = fmt.Sprintf("%s — %d ₽", label, price)
		}
		buttons = append(buttons, Button{Label: label, Token: tier.token})
	}
	buttons = append(buttons, Button{Label: "⬅️ Назад", Token: TokenBack})

	return []Effect{SendMenu{Body: msgChooseTier, Buttons: buttons}}, nil
}

func (d *Dispatcher) handleTierChoice(tier models.Tier) handlerFunc {
	return func(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
		if _, ok := d.subscriptions.Price(tier); !ok {
			return d.showTierMenu(ctx, f, ev)
		}
		f.State.Set(models.TempPendingTier, string(tier))
		return d.showPaymentConfirm(ctx, f, ev)
	}
}

func (d *Dispatcher) showPaymentConfirm(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	tier := models.Tier(f.State.GetString(models.TempPendingTier))
	price, ok := d.subscriptions.Price(tier)
	if !ok {
		return d.showTierMenu(ctx, f, ev)
	}

	f.transition(StatePaymentConfirm)
	return []Effect{SendMenu{
		Body: fmt.Sprintf("Тариф «%s», %d ₽ за 30 дней.\nПодтвердите оплату:", tierLabel(tier), price),
		Buttons: []Button{
			{Label: "💰 Оплатить", Token: TokenPayConfirm},
			{Label: "⬅️ Назад", Token: TokenBack},
		},
	}}, nil
}

// handlePayment точка коммита подписки. Оплата заглушена: подтверждение
// кнопкой сразу создаёт запись подписки.
func (d *Dispatcher) handlePayment(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := f.requireUser()
	if err != nil {
		return nil, err
	}

	tier := models.Tier(f.State.GetString(models.TempPendingTier))
	if _, ok := d.subscriptions.Price(tier); !ok {
		return d.showTierMenu(ctx, f, ev)
	}

	sub, err := d.subscriptions.Subscribe(ctx, user.ID, tier, d.now())
	if err != nil {
		return nil, err
	}

	f.resetScratch()
	effects, _ := d.showClientMenu(ctx, f, ev)
	return append([]Effect{SendText{
		Body: fmt.Sprintf("✅ Подписка «%s» оформлена до %s.", tierLabel(sub.Level), sub.EndAt.Format("02.01.2006")),
	}}, effects...), nil
}

func (d *Dispatcher) showTaskCompose(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateTaskComposeMenu)
	return []Effect{SendMenu{
		Body: "Размещение задачи:",
		Buttons: []Button{
			{Label: "✍️ Написать задачу", Token: TokenTaskWrite},
			{Label: "⬅️ В меню", Token: TokenBack},
		},
	}}, nil
}

func (d *Dispatcher) askTaskText(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateAwaitingTaskText)
	return []Effect{SendText{Body: msgAskTaskText}}, nil
}

// handleTaskText точка коммита создания задачи. Без активной подписки
// создание блокируется, пользователь уводится в раздел подписок.
func (d *Dispatcher) handleTaskText(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := f.requireUser()
	if err != nil {
		return nil, err
	}

	text, _ := ev.(Text)
	body := strings.TrimSpace(text.Body)
	if body == "" {
		return []Effect{SendText{Body: msgAskTaskText}}, nil
	}

	task, err := d.tasks.Create(ctx, user.ID, body, d.now())
	if errors.Is(err, database.ErrNoActiveSubscription) {
		effects, _ := d.showSubscriptionsMenu(ctx, f, ev)
		return append([]Effect{SendText{Body: msgNoSubscription}}, effects...), nil
	}
	if err != nil {
		return nil, err
	}

	f.resetScratch()
	effects, _ := d.showClientMenu(ctx, f, ev)
	return append([]Effect{SendText{
		Body: fmt.Sprintf("%s\nНомер задачи: #%d.", msgTaskCreated, task.ID),
	}}, effects...), nil
}

func (d *Dispatcher) showClientTasks(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	return d.clientTasksAt(ctx, f, 0)
}

func (d *Dispatcher) clientTasksPage(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	press, _ := ev.(ButtonPress)
	return d.clientTasksAt(ctx, f, parsePage(press.Payload))
}

func (d *Dispatcher) clientTasksAt(ctx context.Context, f *flow, page int) ([]Effect, error) {
	user, err := f.requireUser()
	if err != nil {
		return nil, err
	}

	tasks, err := d.tasks.ListOwned(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	f.transition(StateClientTaskList)
	f.State.Set(models.TempListPage, page)

	if len(tasks) == 0 {
		return []Effect{SendMenu{
			Body:    msgNoOwnTasks,
			Buttons: []Button{{Label: "⬅️ В меню", Token: TokenBack}},
		}}, nil
	}

	return []Effect{d.taskListMenu("Ваши задачи:", tasks, page, TokenTaskSelect)}, nil
}

func (d *Dispatcher) showClientTaskDetail(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := f.requireUser()
	if err != nil {
		return nil, err
	}

	press, _ := ev.(ButtonPress)
	taskID := parseID(press.Payload)

	task, err := d.tasks.Get(ctx, taskID)
	if errors.Is(err, database.ErrNotFound) {
		effects, _ := d.showClientTasks(ctx, f, ev)
		return append([]Effect{SendText{Body: msgTaskGone}}, effects...), nil
	}
	if err != nil {
		return nil, err
	}
	if task.ClientID != user.ID {
		return d.showClientTasks(ctx, f, ev)
	}

	f.transition(StateClientTaskDetail)
	f.State.Set(models.TempSelectedTaskID, task.ID)

	return []Effect{SendMenu{
		Body: d.renderTaskDetail(ctx, task),
		Buttons: []Button{
			{Label: "💬 Комментарий", Token: TokenTaskComment},
			{Label: "⬅️ К списку", Token: TokenBack},
		},
	}}, nil
}

func (d *Dispatcher) renderTaskDetail(ctx context.Context, task *models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Задача #%d\nСтатус: %s\nСоздана: %s\n\n%s\n",
		task.ID, taskStatusLabel(task.Status), task.CreatedAt.Format("02.01.2006 15:04"), task.Text)

	msgs, err := d.tasks.Messages(ctx, task.ID)
	if err == nil && len(msgs) > 0 {
		b.WriteString("\nКомментарии:\n")
		for _, m := range msgs {
			fmt.Fprintf(&b, "• %s\n", m.Text)
		}
	}

	return b.String()
}

func (d *Dispatcher) askTaskComment(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	if f.State.GetInt64(models.TempSelectedTaskID) == 0 {
		return nil, database.ErrNotFound
	}
	f.transition(StateAwaitingTaskComment)
	return []Effect{SendText{Body: msgAskComment}}, nil
}

func (d *Dispatcher) handleTaskComment(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	user, err := f.requireUser()
	if err != nil {
		return nil, err
	}

	text, _ := ev.(Text)
	body := strings.TrimSpace(text.Body)
	if body == "" {
		return []Effect{SendText{Body: msgAskComment}}, nil
	}

	taskID := f.State.GetInt64(models.TempSelectedTaskID)
	if taskID == 0 {
		return d.showClientTasks(ctx, f, ev)
	}

	if err := d.tasks.AddMessage(ctx, taskID, user.ID, body); err != nil {
		return nil, err
	}

	effects, err := d.showClientTaskDetail(ctx, f, ButtonPress{Token: TokenTaskSelect, Payload: fmt.Sprint(taskID)})
	if err != nil {
		return nil, err
	}
	return append([]Effect{SendText{Body: msgCommentSaved}}, effects...), nil
}
