package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"podryad/internal/bot"
	"podryad/internal/config"
	"podryad/internal/database"
	"podryad/internal/dialog"
	"podryad/internal/events"
	"podryad/internal/export"
	"podryad/internal/logging"
	"podryad/internal/metrics"
	"podryad/internal/models"
	"podryad/internal/repository"
	"podryad/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, sessionService := initSessionService(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	eventBus := events.NewEventBus()

	m := metrics.New()
	m.ObserveBus(eventBus)
	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, &logger)
	}

	// Бизнес-сервисы
	userService := service.NewUserService(db, eventBus, cfg.Managers, &logger)
	taskService := service.NewTaskService(db, eventBus, &logger)
	subscriptionService := service.NewSubscriptionService(db, eventBus, cfg.Subscriptions.Prices, &logger)
	exportService := export.NewService(db, &logger)

	if err := bootstrapManagers(ctx, cfg, db, &logger); err != nil {
		return err
	}

	dispatcher := dialog.NewDispatcher(sessionService, userService, taskService, subscriptionService, exportService, dialog.Options{
		PhoneRegion: cfg.Bot.PhoneRegion,
		PageSize:    cfg.Bot.PaginationSize,
	}, &logger)

	return startBot(ctx, cfg, dispatcher, sessionService, m, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
			return err
		}
	}
	return nil
}

func initSessionService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(models.DefaultRedisTTL) * time.Second
	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemoryStateRepository(ttl)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewSessionService(stateRepo, logger)
}

// bootstrapManagers выдаёт роль менеджера аккаунтам из конфига, если
// они уже зарегистрированы. Новые получат её при регистрации.
func bootstrapManagers(ctx context.Context, cfg *config.Config, db *database.DB, logger *zerolog.Logger) error {
	for _, telegramID := range cfg.Managers {
		user, err := db.GetUserByTelegramID(ctx, telegramID)
		if err != nil {
			continue
		}
		if user.Role == models.RoleManager {
			continue
		}
		if err := db.UpdateUserRole(ctx, telegramID, models.RoleManager); err != nil {
			logger.Error().Err(err).Int64("telegram_id", telegramID).Msg("Ошибка назначения роли менеджера")
			return err
		}
		logger.Info().Int64("telegram_id", telegramID).Msg("Назначена роль менеджера")
	}
	return nil
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("Prometheus endpoint started")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("Prometheus endpoint error")
	}
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	dispatcher *dialog.Dispatcher,
	sessionService *service.SessionService,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)

	telegramBot := bot.NewBot(tgService, dispatcher, sessionService, cfg, m, logger)

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
