package config

import (
	"os"
	"path/filepath"
	"testing"

	"podryad/internal/models"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
telegram:
  bot_token: "test_token"
database:
  path: "test.db"
subscriptions:
  prices:
    vip: 3000
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "test_token" {
		t.Errorf("expected bot_token test_token, got %s", cfg.Telegram.BotToken)
	}

	if cfg.Bot.PhoneRegion != "RU" {
		t.Errorf("expected default phone region RU, got %s", cfg.Bot.PhoneRegion)
	}

	// Явная цена перекрывает дефолт, остальные достраиваются.
	if cfg.Subscriptions.Prices[string(models.TierVIP)] != 3000 {
		t.Errorf("expected vip price 3000, got %d", cfg.Subscriptions.Prices[string(models.TierVIP)])
	}
	if cfg.Subscriptions.Prices[string(models.TierEconomy)] != 500 {
		t.Errorf("expected default economy price 500, got %d", cfg.Subscriptions.Prices[string(models.TierEconomy)])
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing bot token")
	}

	cfg.Telegram.BotToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing database path")
	}

	cfg.Database.Path = "test.db"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Subscriptions.Prices["gold"] = 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_BOT_TOKEN", "secret_token")

	yamlContent := `
telegram:
  bot_token: "${TEST_BOT_TOKEN}"
database:
  path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "secret_token" {
		t.Errorf("expected env-expanded token, got %s", cfg.Telegram.BotToken)
	}
}
