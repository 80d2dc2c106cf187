package bot

import (
	"context"
	"os"
	"time"

	"podryad/internal/config"
	"podryad/internal/dialog"
	"podryad/internal/domain"
	"podryad/internal/metrics"
	"podryad/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Bot адаптер между Telegram и ядром диалога: превращает апдейты в
// события, а эффекты обработчиков в отправки.
type Bot struct {
	tgService   *service.TelegramService
	dispatcher  *dialog.Dispatcher
	sessions    domain.SessionManager
	config      *config.Config
	metrics     *metrics.Metrics
	sendLimiter *rate.Limiter
	managersMap map[int64]bool
	logger      *zerolog.Logger
}

func NewBot(
	tgService *service.TelegramService,
	dispatcher *dialog.Dispatcher,
	sessions domain.SessionManager,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) *Bot {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	managersMap := make(map[int64]bool)
	for _, id := range cfg.Managers {
		managersMap[id] = true
	}

	sendRPS := cfg.Bot.SendRPS
	if sendRPS <= 0 {
		sendRPS = 25
	}

	return &Bot{
		tgService:   tgService,
		dispatcher:  dispatcher,
		sessions:    sessions,
		config:      cfg,
		metrics:     m,
		sendLimiter: rate.NewLimiter(rate.Limit(sendRPS), sendRPS),
		managersMap: managersMap,
		logger:      logger,
	}
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			// Порядок событий одного пользователя держит замок
			// диспетчера, поэтому апдейты можно обрабатывать
			// параллельно.
			go b.processUpdate(ctx, update)
		}
	}
}

// Stop перестаёт получать апдейты (best-effort).
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdatesProcessed.Inc()
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	// Свой контекст на каждый апдейт
	updateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		userID, chatID := identify(update)
		if userID == 0 {
			return
		}

		if !b.managersMap[userID] {
			allowed, err := b.sessions.CheckRateLimit(updateCtx, userID, b.config.Bot.RateLimitMessages, time.Duration(b.config.Bot.RateLimitWindow)*time.Second)
			if err != nil {
				l.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
			} else if !allowed {
				l.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
				if b.metrics != nil {
					b.metrics.RateLimited.Inc()
				}
				b.sendText(chatID, "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного.")
				return
			}
		}

		if update.CallbackQuery != nil {
			// Отвечаем на callback сразу, чтобы убрать "часики"
			b.tgService.AnswerCallback(update.CallbackQuery.ID, "")
		}

		ev, ok := toEvent(update)
		if !ok {
			return
		}

		effects, err := b.dispatcher.Handle(updateCtx, userID, ev)
		if err != nil {
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			l.Error().Err(err).Int64("user_id", userID).Msg("dispatch failed")
		}

		b.deliver(updateCtx, chatID, effects)
	})
}

func (b *Bot) withRecovery(handler func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
		}
	}()
	handler()
}

// identify достаёт пользователя и чат из любого вида апдейта.
func identify(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil:
		return update.Message.From.ID, update.Message.Chat.ID
	case update.CallbackQuery != nil:
		chatID = update.CallbackQuery.From.ID
		if update.CallbackQuery.Message != nil {
			chatID = update.CallbackQuery.Message.Chat.ID
		}
		return update.CallbackQuery.From.ID, chatID
	}
	return 0, 0
}
