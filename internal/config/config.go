package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./public"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	SessionCookieName    string        `env:"SESSION_COOKIE_NAME" envDefault:"wardrobe_session"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SessionRememberTTL   time.Duration `env:"SESSION_REMEMBER_TTL" envDefault:"720h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"0"`
	BcryptCost           int           `env:"BCRYPT_COST" envDefault:"12"`

	APIRateLimitRPM  int `env:"API_RATE_LIMIT_RPM" envDefault:"300"`
	AuthRateLimitRPM int `env:"AUTH_RATE_LIMIT_RPM" envDefault:"30"`
	ChatRateLimitRPM int `env:"CHAT_RATE_LIMIT_RPM" envDefault:"20"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	S3Bucket         string `env:"S3_BUCKET"`
	S3Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"S3_SECRET_KEY"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3BaseURL        string `env:"S3_BASE_URL"`
	S3ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`

	OTELServiceName           string        `env:"OTEL_SERVICE_NAME" envDefault:"wardrobe-service"`
	OTELEnvironment           string        `env:"OTEL_ENVIRONMENT" envDefault:"local"`
	OTELMetricsEnabled        bool          `env:"OTEL_METRICS_ENABLED" envDefault:"false"`
	OTELLogsEnabled           bool          `env:"OTEL_LOGS_ENABLED" envDefault:"false"`
	OTELExporterOTLPEndpoint  string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTELExporterOTLPInsecure  bool          `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELMetricsExportInterval time.Duration `env:"OTEL_METRICS_EXPORT_INTERVAL" envDefault:"60s"`
	EnableOTelHTTP            bool          `env:"OTEL_HTTP_ENABLED" envDefault:"false"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads .env (if present) and the process environment. Validation
// failures are fatal at startup, never at request time.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		recordConfigValidationEvent(ctx, cfg.Env, "error", classifyConfigLoadError(err))
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		recordConfigValidationEvent(ctx, cfg.Env, "error", classifyConfigLoadError(err))
		return nil, err
	}
	recordConfigValidationEvent(ctx, cfg.Env, "success", "none")
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("validate config: DATABASE_URL is required")
	}
	if c.SessionTTL <= 0 || c.SessionRememberTTL <= 0 {
		return errors.New("validate config: session TTLs must be positive")
	}
	if c.SessionRememberTTL < c.SessionTTL {
		return errors.New("validate config: SESSION_REMEMBER_TTL must not be shorter than SESSION_TTL")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("validate config: BCRYPT_COST must be between 4 and 31")
	}
	if c.SessionCookieName == "" {
		return errors.New("validate config: SESSION_COOKIE_NAME is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return normalizeConfigProfile(c.Env) == "production"
}
