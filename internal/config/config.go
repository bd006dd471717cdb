package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/gommon/random"
)

const EnvPrefix = "GYMETRA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config represents the complete service configuration
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	Redis RedisConfig
	Minio MinioConfig
	SMTP  SMTPConfig
	Jobs  JobsConfig

	generatedSecret bool
}

type AppConfig struct {
	Env       string `envconfig:"APP_ENV" default:"dev"`
	Port      int    `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

type DBConfig struct {
	URL         string `envconfig:"DATABASE_URL" required:"true"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"10"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

type JWTConfig struct {
	Secret     string        `envconfig:"JWT_SECRET"`
	Issuer     string        `envconfig:"JWT_ISSUER" default:"gymetra-auth"`
	Expiration time.Duration `envconfig:"JWT_EXPIRATION" default:"24h"`
}

type RedisConfig struct {
	Addr         string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PlanCacheTTL time.Duration `envconfig:"PLAN_CACHE_TTL" default:"10m"`
}

type MinioConfig struct {
	Endpoint   string        `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey  string        `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey  string        `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	UseSSL     bool          `envconfig:"MINIO_USE_SSL" default:"false"`
	Bucket     string        `envconfig:"MINIO_BUCKET" default:"payment-receipts"`
	PresignTTL time.Duration `envconfig:"MINIO_PRESIGN_TTL" default:"15m"`
}

type SMTPConfig struct {
	Host        string `envconfig:"SMTP_HOST" default:"localhost"`
	Port        int    `envconfig:"SMTP_PORT" default:"1025"`
	Username    string `envconfig:"SMTP_USERNAME"`
	Password    string `envconfig:"SMTP_PASSWORD"`
	FromAddress string `envconfig:"SMTP_FROM" default:"no-reply@gymetra.local"`
	FromName    string `envconfig:"SMTP_FROM_NAME" default:"GYMETRA"`
	BaseURL     string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:5173"`
}

// JobsConfig controls the stale PENDING membership sweep.
type JobsConfig struct {
	PendingCleanupInterval time.Duration `envconfig:"PENDING_CLEANUP_INTERVAL" default:"60s"`
	PendingMaxAge          time.Duration `envconfig:"PENDING_MAX_AGE" default:"5m"`
}

// Load reads an optional .env file and then the GYMETRA_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("%s_DATABASE_URL is required", EnvPrefix)
	}
	if c.JWT.Secret == "" {
		if !c.App.IsDev() {
			return fmt.Errorf("%s_JWT_SECRET is required outside dev", EnvPrefix)
		}
		c.JWT.Secret = random.String(32)
		c.generatedSecret = true
	}
	if c.Jobs.PendingCleanupInterval <= 0 {
		return fmt.Errorf("pending cleanup interval must be positive")
	}
	if c.Jobs.PendingMaxAge <= 0 {
		return fmt.Errorf("pending max age must be positive")
	}
	return nil
}

// GeneratedJWTSecret reports whether the secret was generated for this run.
func (c *Config) GeneratedJWTSecret() bool {
	return c.generatedSecret
}
