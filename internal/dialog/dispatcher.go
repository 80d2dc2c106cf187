package dialog

import (
	"context"
	"errors"
	"sync"
	"time"

	"podryad/internal/database"
	"podryad/internal/domain"
	"podryad/internal/models"

	"github.com/rs/zerolog"
)

// errNotOnboarded сигнал обработчика: пользователю нужна регистрация.
// Диспетчер перехватывает его и заводит онбординг вместо падения.
var errNotOnboarded = errors.New("dialog: user not onboarded")

// errRoleDenied пользователь онбордирован, но роли для текущего шага
// недостаточно (например, роль отозвали посреди потока).
var errRoleDenied = errors.New("dialog: role denied")

type eventKind int

const (
	kindCommand eventKind = iota
	kindText
	kindContact
	kindButton
)

// eventKey форма события для таблицы переходов. Для кнопок несёт
// токен, для команд имя команды.
type eventKey struct {
	kind eventKind
	name string
}

// flow всё, что нужно обработчику одного события: сессия и, если
// пользователь уже онбордирован, его запись.
type flow struct {
	UserID int64
	State  *models.UserState
	User   *models.User
}

func (f *flow) transition(step string) {
	f.State.CurrentStep = step
}

// resetScratch очищает черновые данные брошенного потока.
func (f *flow) resetScratch() {
	f.State.TempData = make(map[string]interface{})
}

func (f *flow) requireUser() (*models.User, error) {
	if f.User == nil {
		return nil, errNotOnboarded
	}
	return f.User, nil
}

type handlerFunc func(ctx context.Context, f *flow, ev Event) ([]Effect, error)

// Dispatcher ядро диалога: по паре (текущий шаг, форма события)
// выбирает обработчик, выполняет его и сохраняет новый шаг сессии.
// События одного пользователя обрабатываются строго по одному,
// события разных пользователей параллельно.
type Dispatcher struct {
	sessions      domain.SessionManager
	users         domain.UserService
	tasks         domain.TaskService
	subscriptions domain.SubscriptionService
	exporter      Exporter
	logger        *zerolog.Logger

	phoneRegion string
	pageSize    int
	now         func() time.Time

	handlers map[string]map[eventKey]handlerFunc
	defaults map[string]handlerFunc

	locksMu sync.Mutex
	locks   map[int64]*userLock
}

// Exporter готовит отчёты для выгрузки менеджером.
type Exporter interface {
	TasksReport(ctx context.Context) ([]byte, error)
	UsersReport(ctx context.Context) ([]byte, error)
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

type Options struct {
	PhoneRegion string
	PageSize    int
	// Now подменяется в тестах; nil означает time.Now.
	Now func() time.Time
}

func NewDispatcher(
	sessions domain.SessionManager,
	users domain.UserService,
	tasks domain.TaskService,
	subscriptions domain.SubscriptionService,
	exporter Exporter,
	opts Options,
	logger *zerolog.Logger,
) *Dispatcher {
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = models.DefaultPhoneRegion
	}
	if opts.PageSize <= 0 {
		opts.PageSize = models.DefaultPaginationSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Dispatcher{
		sessions:      sessions,
		users:         users,
		tasks:         tasks,
		subscriptions: subscriptions,
		exporter:      exporter,
		logger:        logger,
		phoneRegion:   opts.PhoneRegion,
		pageSize:      opts.PageSize,
		now:           opts.Now,
		handlers:      make(map[string]map[eventKey]handlerFunc),
		defaults:      make(map[string]handlerFunc),
		locks:         make(map[int64]*userLock),
	}

	d.registerOnboarding()
	d.registerClient()
	d.registerWorker()
	d.registerManager()

	return d
}

func (d *Dispatcher) register(state string, key eventKey, h handlerFunc) {
	if d.handlers[state] == nil {
		d.handlers[state] = make(map[eventKey]handlerFunc)
	}
	d.handlers[state][key] = h
}

func (d *Dispatcher) onButton(state string, token Token, h handlerFunc) {
	d.register(state, eventKey{kind: kindButton, name: string(token)}, h)
}

func (d *Dispatcher) onText(state string, h handlerFunc) {
	d.register(state, eventKey{kind: kindText}, h)
}

func (d *Dispatcher) onContact(state string, h handlerFunc) {
	d.register(state, eventKey{kind: kindContact}, h)
}

// onDefault обработчик по умолчанию для шага: несовпавшие кнопки и
// текст заново показывают текущее меню.
func (d *Dispatcher) onDefault(state string, h handlerFunc) {
	d.defaults[state] = h
}

// Handle обрабатывает одно событие пользователя и возвращает эффекты
// для адаптера транспорта.
func (d *Dispatcher) Handle(ctx context.Context, userID int64, ev Event) ([]Effect, error) {
	unlock := d.lockUser(userID)
	defer unlock()

	state, err := d.sessions.GetUserState(ctx, userID)
	if err != nil {
		return []Effect{SendText{Body: msgInternalError}}, err
	}
	if state == nil {
		state = &models.UserState{UserID: userID, CurrentStep: StateStart}
	}
	if state.CurrentStep == "" {
		state.CurrentStep = StateStart
	}
	if state.TempData == nil {
		state.TempData = make(map[string]interface{})
	}

	f := &flow{UserID: userID, State: state}
	user, err := d.users.ByTelegramID(ctx, userID)
	switch {
	case err == nil:
		f.User = user
	case errors.Is(err, database.ErrNotFound):
		// Пользователь ещё не зарегистрирован, это штатный случай.
	default:
		// Недоступное хранилище не повод считать пользователя новым:
		// оставляем сессию как есть и отвечаем общей ошибкой.
		d.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load user")
		return []Effect{SendText{Body: msgInternalError}}, err
	}

	effects, err := d.dispatch(ctx, f, ev)
	if errors.Is(err, errNotOnboarded) {
		// Пользователь без записи попал в ролевой поток: возвращаем
		// его в онбординг, а не роняем обработку.
		effects, err = d.startOnboarding(ctx, f)
	} else if errors.Is(err, errRoleDenied) {
		effects, err = d.showRoleMenu(ctx, f, ev)
		effects = append([]Effect{SendText{Body: "⛔ Доступ к этому разделу закрыт для вашей роли."}}, effects...)
	}
	if err != nil {
		d.logger.Error().Err(err).Int64("user_id", userID).Str("step", state.CurrentStep).Msg("dialog handler error")
		return append(effects, SendText{Body: errorMessage(err)}), nil
	}

	if err := d.sessions.SetUserState(ctx, userID, f.State.CurrentStep, f.State.TempData); err != nil {
		d.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to persist dialog state")
		return append(effects, SendText{Body: msgInternalError}), nil
	}

	return effects, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, f *flow, ev Event) ([]Effect, error) {
	// Глобальные команды работают из любого шага.
	if cmd, ok := ev.(Command); ok {
		switch cmd.Name {
		case CommandStart:
			return d.handleStart(ctx, f)
		case CommandCancel:
			return d.handleCancel(ctx, f)
		}
	}

	key, ok := keyOf(ev)
	if !ok {
		return nil, nil
	}

	if h := d.handlers[f.State.CurrentStep][key]; h != nil {
		return h(ctx, f, ev)
	}

	// Несовпавшая команда трактуется как отмена.
	if key.kind == kindCommand {
		return d.handleCancel(ctx, f)
	}

	if h := d.defaults[f.State.CurrentStep]; h != nil {
		return h(ctx, f, ev)
	}

	// Шаг без обработчика по умолчанию: начинаем сначала.
	return d.handleStart(ctx, f)
}

func keyOf(ev Event) (eventKey, bool) {
	switch e := ev.(type) {
	case Command:
		return eventKey{kind: kindCommand, name: e.Name}, true
	case Text:
		return eventKey{kind: kindText}, true
	case Contact:
		return eventKey{kind: kindContact}, true
	case ButtonPress:
		return eventKey{kind: kindButton, name: string(e.Token)}, true
	}
	return eventKey{}, false
}

// lockUser сериализует события одного пользователя. Счётчик ссылок
// не даёт карте замков расти бесконечно.
func (d *Dispatcher) lockUser(userID int64) func() {
	d.locksMu.Lock()
	l, ok := d.locks[userID]
	if !ok {
		l = &userLock{}
		d.locks[userID] = l
	}
	l.refs++
	d.locksMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		d.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, userID)
		}
		d.locksMu.Unlock()
	}
}
