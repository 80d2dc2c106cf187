package dialog

import (
	"context"
	"strings"

	"podryad/internal/models"
	"podryad/internal/validation"
)

func (d *Dispatcher) registerOnboarding() {
	d.onButton(StateAwaitingAgreement, TokenAgreeTerms, d.handleAgreement)
	d.onDefault(StateAwaitingAgreement, d.showAgreement)

	d.onText(StateAwaitingName, d.handleName)
	d.onDefault(StateAwaitingName, prompt(msgAskName))

	d.onText(StateAwaitingPhone, d.handlePhoneText)
	d.onContact(StateAwaitingPhone, d.handlePhoneContact)
	d.onDefault(StateAwaitingPhone, prompt(msgAskPhone))

	d.onButton(StateChooseRole, TokenRoleClient, d.handleRoleChoice(MenuClient))
	d.onButton(StateChooseRole, TokenRoleWorker, d.handleRoleChoice(MenuWorker))
	d.onButton(StateChooseRole, TokenRoleManager, d.handleRoleChoice(MenuManager))
	d.onDefault(StateChooseRole, d.showRoleMenu)

	d.onDefault(StateIdle, prompt(msgIdleAcknowledged))
	d.onDefault(StateStart, func(ctx context.Context, f *flow, _ Event) ([]Effect, error) {
		return d.handleStart(ctx, f)
	})
}

// prompt обработчик, который только повторяет подсказку текущего шага.
func prompt(body string) handlerFunc {
	return func(context.Context, *flow, Event) ([]Effect, error) {
		return []Effect{SendText{Body: body}}, nil
	}
}

// handleStart: онбординг для новых пользователей, выбор роли для уже
// зарегистрированных. Черновик предыдущего потока сбрасывается.
func (d *Dispatcher) handleStart(ctx context.Context, f *flow) ([]Effect, error) {
	f.resetScratch()

	if f.User == nil {
		return d.startOnboarding(ctx, f)
	}

	return d.showRoleMenu(ctx, f, nil)
}

func (d *Dispatcher) startOnboarding(_ context.Context, f *flow) ([]Effect, error) {
	f.resetScratch()
	f.transition(StateAwaitingAgreement)
	return []Effect{agreementMenu()}, nil
}

// handleCancel прерывает любой поток. Частично собранные данные
// отбрасываются, доменные записи не менялись: каждый поток коммитит
// строго в одной точке.
func (d *Dispatcher) handleCancel(_ context.Context, f *flow) ([]Effect, error) {
	f.resetScratch()
	f.transition(StateIdle)
	return []Effect{SendText{Body: msgCancelled}}, nil
}

func agreementMenu() SendMenu {
	return SendMenu{
		Body: msgAgreement,
		Buttons: []Button{
			{Label: "✅ Принимаю условия", Token: TokenAgreeTerms},
		},
	}
}

func (d *Dispatcher) showAgreement(_ context.Context, _ *flow, _ Event) ([]Effect, error) {
	return []Effect{agreementMenu()}, nil
}

func (d *Dispatcher) handleAgreement(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateAwaitingName)
	return []Effect{SendText{Body: msgAskName}}, nil
}

func (d *Dispatcher) handleName(_ context.Context, f *flow, ev Event) ([]Effect, error) {
	text, _ := ev.(Text)
	name := strings.TrimSpace(text.Body)

	// Ошибка ввода не двигает диалог: остаёмся на том же шаге.
	if !validation.ValidName(name) {
		return []Effect{SendText{Body: msgBadName}}, nil
	}

	f.State.Set(models.TempPendingName, name)
	f.transition(StateAwaitingPhone)
	return []Effect{SendText{Body: msgAskPhone}}, nil
}

func (d *Dispatcher) handlePhoneText(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	text, _ := ev.(Text)
	return d.acceptPhone(ctx, f, text.Body)
}

// handlePhoneContact: структурный контакт проходит тот же парсер, что
// и набранный вручную номер.
func (d *Dispatcher) handlePhoneContact(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	contact, _ := ev.(Contact)
	return d.acceptPhone(ctx, f, contact.Phone)
}

// acceptPhone единственная точка коммита онбординга: запись
// пользователя создаётся здесь, с ролью "не выбрана".
func (d *Dispatcher) acceptPhone(ctx context.Context, f *flow, raw string) ([]Effect, error) {
	phone, err := validation.NormalizePhone(raw, d.phoneRegion)
	if err != nil {
		return []Effect{SendText{Body: msgBadPhone}}, nil
	}

	user := &models.User{
		TelegramID: f.UserID,
		FullName:   f.State.GetString(models.TempPendingName),
		Phone:      phone,
		Role:       models.RoleUnassigned,
	}
	if err := d.users.Register(ctx, user); err != nil {
		return nil, err
	}
	f.User = user

	f.resetScratch()
	return d.showRoleMenu(ctx, f, nil)
}

func (d *Dispatcher) showRoleMenu(_ context.Context, f *flow, _ Event) ([]Effect, error) {
	f.transition(StateChooseRole)
	return []Effect{SendMenu{
		Body: msgChooseRole,
		Buttons: []Button{
			{Label: "🛒 Я заказчик", Token: TokenRoleClient},
			{Label: "🔨 Я исполнитель", Token: TokenRoleWorker},
			{Label: "📋 Я менеджер", Token: TokenRoleManager},
		},
	}}, nil
}

// handleRoleChoice пропускает выбор через ролевой фильтр. Отказ не
// завершает диалог, а возвращает к выбору роли с объяснением.
func (d *Dispatcher) handleRoleChoice(menu Menu) handlerFunc {
	return func(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
		user, err := f.requireUser()
		if err != nil {
			return nil, err
		}

		decision := Authorize(user.Role, menu)
		if !decision.Allowed {
			effects, _ := d.showRoleMenu(ctx, f, ev)
			return append([]Effect{SendText{Body: "⛔ Доступ запрещён: " + decision.Reason + "."}}, effects...), nil
		}

		f.transition(decision.NextState)
		return d.showMenuFor(ctx, f, decision.NextState)
	}
}

func (d *Dispatcher) showMenuFor(ctx context.Context, f *flow, state string) ([]Effect, error) {
	switch state {
	case StateClientMenu:
		return d.showClientMenu(ctx, f, nil)
	case StateWorkerMenu:
		return d.showWorkerMenu(ctx, f, nil)
	case StateManagerMenu:
		return d.showManagerMenu(ctx, f, nil)
	}
	return d.showRoleMenu(ctx, f, nil)
}
