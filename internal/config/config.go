// Package config содержит логику чтения конфигурации сервиса TradeMaster.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mmeshcher/trademaster/internal/validation"
)

// Виды хранилища состояния.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config содержит параметры конфигурации сервиса TradeMaster.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	Storage     string `env:"STORAGE"`
	StorageDir  string `env:"STORAGE_DIR"`
	DatabaseURI string `env:"DATABASE_URI"`
	RedisAddr   string `env:"REDIS_ADDR"`

	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	StorageKey    string        `env:"STORAGE_KEY" envDefault:"trademaster-storage"`
	UPIVPA        string        `env:"UPI_VPA"`
	UPIName       string        `env:"UPI_NAME"`
	ToastDwell    time.Duration `env:"TOAST_DWELL" envDefault:"3s"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envStorage := cfg.Storage
	envStorageDir := cfg.StorageDir
	envDatabaseURI := cfg.DatabaseURI
	envRedisAddr := cfg.RedisAddr

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.Storage, "s", StorageFile, "state storage: memory, file, postgres or redis")
	flag.StringVar(&cfg.StorageDir, "f", "data", "directory for file storage")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envStorage != "" {
		cfg.Storage = envStorage
	}
	if envStorageDir != "" {
		cfg.StorageDir = envStorageDir
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageFile:
		if c.StorageDir == "" {
			return errors.New("file storage requires a directory")
		}
	case StoragePostgres:
		if c.DatabaseURI == "" {
			return errors.New("postgres storage requires DATABASE_URI")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("redis storage requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.StorageKey == "" {
		return errors.New("storage key is empty")
	}
	if c.ToastDwell < 0 {
		return fmt.Errorf("negative toast dwell %s", c.ToastDwell)
	}
	if c.UPIVPA != "" && !validation.IsValidVPA(c.UPIVPA) {
		return fmt.Errorf("invalid UPI VPA %q", c.UPIVPA)
	}
	return nil
}
