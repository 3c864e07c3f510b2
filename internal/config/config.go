// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// Provider credentials and endpoints. A candidate whose provider has no
	// key configured is filtered out of the waterfall before any call.
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`

	// RedisAddr empty means no external config store: the service runs on the
	// embedded default RuntimeConfig and admin routes are disabled.
	RedisAddr      string        `env:"REDIS_ADDR"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" envDefault:"0"`
	ConfigCacheTTL time.Duration `env:"CONFIG_CACHE_TTL" envDefault:"60s"`
	ConfigHistory  int           `env:"CONFIG_HISTORY_LIMIT" envDefault:"10"`
	SeedConfigPath string        `env:"SEED_CONFIG_PATH"`

	// AdminToken bootstraps the bearer token the first time no hash exists in
	// the store; afterwards the stored (rotatable) hash wins.
	AdminToken        string `env:"ADMIN_TOKEN"`
	AdminAllowOrigins string `env:"ADMIN_ALLOW_ORIGINS" envDefault:"https://mo-gamal.com"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"https://mo-gamal.com,https://emarketbank.github.io,http://localhost:5173,http://127.0.0.1:5173"`
	RateLimitPerMin  int    `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"jimmy-agent"`

	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"45s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// StoreEnabled reports whether an external config store is configured.
func (c Config) StoreEnabled() bool { return c.RedisAddr != "" }

// AdminEnabled reports whether the admin config surface should be mounted.
// Admin writes require a store to write to.
func (c Config) AdminEnabled() bool { return c.StoreEnabled() }

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
