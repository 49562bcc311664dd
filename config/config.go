// Package config loads the console configuration from the environment.
//
// Source priority (highest to lowest):
//  1. Process environment variables
//  2. Variables from a .env file in the working directory (optional)
//  3. A YAML file named by CONFIG_FILE (optional)
//  4. Struct defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config holds every setting the console reads at start-up.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Logging   LoggingConfig   `yaml:"logging"`
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Profiling ProfilingConfig `yaml:"profiling"`
	Shutdown  ShutdownConfig  `yaml:"shutdown"`
}

type ServiceConfig struct {
	Name    string `yaml:"name" env:"SERVICE_NAME" env-default:"workshop-console"`
	Version string `yaml:"version" env:"SERVICE_VERSION" env-default:"dev"`
	Env     string `yaml:"env" env:"ENV" env-default:"local"`
	Port    string `yaml:"port" env:"PORT" env-default:"8080"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// APIConfig points the console at the workshop REST API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8081/api"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"15s"`
}

// StorageConfig selects where the credential store keeps its two entries.
type StorageConfig struct {
	Backend     string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`
	Path        string `yaml:"path" env:"STORAGE_PATH"`
	Secret      string `yaml:"secret" env:"STORAGE_SECRET"`
	RedisURL    string `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	Endpoint   string  `yaml:"endpoint" env:"OTEL_ENDPOINT" env-default:"localhost:4318"`
	SampleRate float64 `yaml:"sample_rate" env:"OTEL_SAMPLE_RATE" env-default:"1.0"`
}

type ProfilingConfig struct {
	Enabled  bool   `yaml:"enabled" env:"PROFILING_ENABLED" env-default:"false"`
	Endpoint string `yaml:"endpoint" env:"PYROSCOPE_ENDPOINT" env-default:"http://localhost:4040"`
}

type ShutdownConfig struct {
	Timeout             string `yaml:"timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	ReadinessDrainDelay string `yaml:"readiness_drain_delay" env:"READINESS_DRAIN_DELAY" env-default:"0s"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if cfg.Storage.Backend == StorageFile && cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath()
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q must be an absolute URL", c.API.BaseURL)
	}

	switch c.Storage.Backend {
	case StorageMemory, StorageFile:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis storage backend")
		}
	case StoragePostgres:
		if c.Storage.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE %v must be within [0, 1]", c.Tracing.SampleRate)
	}
	if _, err := time.ParseDuration(c.Shutdown.Timeout); err != nil {
		return fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	if _, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay); err != nil {
		return fmt.Errorf("READINESS_DRAIN_DELAY: %w", err)
	}
	return nil
}

// Origin returns the scheme and host of the API base URL. Stored credentials
// are scoped to it.
func (c *Config) Origin() string {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return c.API.BaseURL
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.Shutdown.ReadinessDrainDelay)
	if err != nil {
		return 0
	}
	return d
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storage.json"
	}
	return filepath.Join(dir, "workshop-console", "storage.json")
}
