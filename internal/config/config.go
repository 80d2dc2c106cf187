package config

import (
	"errors"
	"fmt"
	"os"

	"podryad/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Telegram      TelegramConfig      `yaml:"telegram"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	Logging       LoggingConfig       `yaml:"logging"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Bot           BotConfig           `yaml:"bot"`
	Subscriptions SubscriptionsConfig `yaml:"subscriptions"`
	Exports       ExportConfig        `yaml:"exports"`
	Managers      []int64             `yaml:"managers"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type BotConfig struct {
	PhoneRegion       string `yaml:"phone_region"`
	PaginationSize    int    `yaml:"pagination_size"`
	RateLimitMessages int    `yaml:"rate_limit_messages"`
	RateLimitWindow   int    `yaml:"rate_limit_window"`
	SendRPS           int    `yaml:"send_rps"`
}

// SubscriptionsConfig ценовая таблица тарифов в рублях.
type SubscriptionsConfig struct {
	Prices map[string]int64 `yaml:"prices"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	for tier := range c.Subscriptions.Prices {
		switch models.Tier(tier) {
		case models.TierEconomy, models.TierStandard, models.TierVIP:
		default:
			return fmt.Errorf("unknown subscription tier in prices: %q", tier)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Bot.PhoneRegion == "" {
		c.Bot.PhoneRegion = models.DefaultPhoneRegion
	}
	if c.Bot.PaginationSize == 0 {
		c.Bot.PaginationSize = models.DefaultPaginationSize
	}
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.SendRPS == 0 {
		c.Bot.SendRPS = 25
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	if c.Subscriptions.Prices == nil {
		c.Subscriptions.Prices = map[string]int64{}
	}
	defaults := map[string]int64{
		string(models.TierEconomy):  500,
		string(models.TierStandard): 1000,
		string(models.TierVIP):      2000,
	}
	for tier, price := range defaults {
		if _, ok := c.Subscriptions.Prices[tier]; !ok {
			c.Subscriptions.Prices[tier] = price
		}
	}
}
