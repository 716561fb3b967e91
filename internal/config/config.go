package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Portal   PortalConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Server   ServerConfig
	Sync     SyncConfig
	Logging  LoggingConfig
}

type PortalConfig struct {
	BaseURL      string
	SchedulePath string // strftime-style path, date appended as ?date=YYYY-MM-DD
	ProfilePath  string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	BaseURL    string // object storage REST endpoint
	ServiceKey string
	Bucket     string
}

type ServerConfig struct {
	Port int
}

type SyncConfig struct {
	WindowDays int
	PaceDelay  time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Portal: PortalConfig{
			BaseURL:      getEnv("PORTAL_BASE_URL", ""),
			SchedulePath: getEnv("PORTAL_SCHEDULE_PATH", "/schedule"),
			ProfilePath:  getEnv("PORTAL_PROFILE_PATH", "/therapists"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "salon"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			BaseURL:    getEnv("STORAGE_URL", ""),
			ServiceKey: getEnv("STORAGE_SERVICE_KEY", ""),
			Bucket:     getEnv("STORAGE_BUCKET", "cast-photos"),
		},
		Server: ServerConfig{
			Port: getEnvInt("HTTP_PORT", 8080),
		},
		Sync: SyncConfig{
			WindowDays: getEnvInt("SYNC_WINDOW_DAYS", 7),
			PaceDelay:  time.Duration(getEnvInt("SYNC_PACE_MS", 700)) * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("PORTAL_BASE_URL is required")
	}
	if c.Postgres.Password == "" {
		return fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if c.Storage.BaseURL == "" {
		return fmt.Errorf("STORAGE_URL is required")
	}
	if c.Storage.ServiceKey == "" {
		return fmt.Errorf("STORAGE_SERVICE_KEY is required")
	}
	if c.Sync.WindowDays < 1 {
		return fmt.Errorf("SYNC_WINDOW_DAYS must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
