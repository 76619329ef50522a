package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	SecretKey   string `env:"SECRET_KEY"`
	BaseURL     string `env:"BASE_URL"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	DefaultLang string `env:"DEFAULT_LANG" default:"ko"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"720h"` // 30 days
	MagicLinkTTL  time.Duration `env:"MAGICLINK_TTL" default:"15m"`

	OrderExpireHours    int    `env:"ORDER_EXPIRE_HOURS" default:"48"`
	ReminderBeforeHours int    `env:"REMINDER_BEFORE_HOURS" default:"24"`
	InventoryPolicy     string `env:"INVENTORY_POLICY" default:"hold"`

	RateLimitPerMin int `env:"RATE_LIMIT_PER_MIN" default:"60"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"REDIS_URL":    cfg.RedisURL,
		"SECRET_KEY":   cfg.SecretKey,
		"BASE_URL":     cfg.BaseURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if len(cfg.SecretKey) < 16 {
		return fmt.Errorf("SECRET_KEY must be at least 16 characters")
	}

	switch cfg.InventoryPolicy {
	case "hold", "deduct_on_paid":
	default:
		return fmt.Errorf("INVENTORY_POLICY must be 'hold' or 'deduct_on_paid', got %q", cfg.InventoryPolicy)
	}

	switch cfg.DefaultLang {
	case "ko", "en":
	default:
		return fmt.Errorf("DEFAULT_LANG must be 'ko' or 'en', got %q", cfg.DefaultLang)
	}

	if cfg.OrderExpireHours < 1 {
		return fmt.Errorf("ORDER_EXPIRE_HOURS must be at least 1")
	}
	if cfg.ReminderBeforeHours < 1 {
		return fmt.Errorf("REMINDER_BEFORE_HOURS must be at least 1")
	}
	if cfg.RateLimitPerMin < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be at least 1")
	}

	return nil
}
