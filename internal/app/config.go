package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Gateway modes.
const (
	GatewayModeHTTP   = "http"
	GatewayModeMemory = "memory"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	GatewayMode      string        `envconfig:"GATEWAY_MODE" default:"http"`
	GatewayBaseURL   string        `envconfig:"GATEWAY_BASE_URL"`
	GatewayProjectID string        `envconfig:"GATEWAY_PROJECT_ID"`
	GatewayPublicKey string        `envconfig:"GATEWAY_PUBLIC_KEY"`
	GatewayTimeout   time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"15s"`

	RedisAddr    string        `envconfig:"REDIS_ADDR"`
	ListCacheTTL time.Duration `envconfig:"LIST_CACHE_TTL" default:"30s"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	switch cfg.GatewayMode {
	case GatewayModeHTTP:
		if cfg.GatewayBaseURL == "" {
			return nil, errors.New("gateway base url must be provided in http mode")
		}
	case GatewayModeMemory:
	default:
		return nil, fmt.Errorf("unknown gateway mode %q", cfg.GatewayMode)
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
