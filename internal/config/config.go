package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"fintrack/internal/log"
)

// Backends accepted in DATA_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendPostgres}

type Config struct {
	// HTTP server
	Port            string
	ShutdownTimeout time.Duration

	// Persistence
	DataBackend   string
	DataDirectory string
	SQLiteDBPath  string
	DatabaseURL   string

	// Change notifications, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Presentation
	PageSize       int
	TrendWindow    int
	ChartCacheSize int
	ChartCacheTTL  time.Duration

	LogLevel string
}

// fileConfig is the TOML layout of FINTRACK_CONFIG.
type fileConfig struct {
	Server struct {
		Port            string `toml:"port"`
		ShutdownTimeout string `toml:"shutdown_timeout"`
	} `toml:"server"`
	Storage struct {
		Backend       string `toml:"backend"`
		DataDirectory string `toml:"data_directory"`
		SQLitePath    string `toml:"sqlite_path"`
		DatabaseURL   string `toml:"database_url"`
	} `toml:"storage"`
	AMQP struct {
		URL      string `toml:"url"`
		Exchange string `toml:"exchange"`
		Queue    string `toml:"queue"`
	} `toml:"amqp"`
	Dashboard struct {
		PageSize       int    `toml:"page_size"`
		TrendWindow    int    `toml:"trend_window"`
		ChartCacheSize int    `toml:"chart_cache_size"`
		ChartCacheTTL  string `toml:"chart_cache_ttl"`
	} `toml:"dashboard"`
	Logging struct {
		Level string `toml:"level"`
	} `toml:"logging"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:            "8081",
		ShutdownTimeout: 10 * time.Second,
		DataBackend:     BackendMemory,
		DataDirectory:   "data",
		SQLiteDBPath:    "./data/fintrack.db",
		AMQPExchange:    "fintrack",
		AMQPQueue:       "ledger_changes",
		PageSize:        10,
		TrendWindow:     6,
		ChartCacheSize:  64,
		ChartCacheTTL:   10 * time.Minute,
		LogLevel:        "info",
	}
}

// Load starts from Defaults, overlays the TOML file named by
// FINTRACK_CONFIG when set, then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("FINTRACK_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads a TOML file over Defaults without consulting the
// environment.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Server.Port)
	setString(&c.DataBackend, fc.Storage.Backend)
	setString(&c.DataDirectory, fc.Storage.DataDirectory)
	setString(&c.SQLiteDBPath, fc.Storage.SQLitePath)
	setString(&c.DatabaseURL, fc.Storage.DatabaseURL)
	setString(&c.AMQPURL, fc.AMQP.URL)
	setString(&c.AMQPExchange, fc.AMQP.Exchange)
	setString(&c.AMQPQueue, fc.AMQP.Queue)
	setString(&c.LogLevel, fc.Logging.Level)
	setInt(&c.PageSize, fc.Dashboard.PageSize)
	setInt(&c.TrendWindow, fc.Dashboard.TrendWindow)
	setInt(&c.ChartCacheSize, fc.Dashboard.ChartCacheSize)

	var errs []error
	if fc.Server.ShutdownTimeout != "" {
		d, err := time.ParseDuration(fc.Server.ShutdownTimeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("server.shutdown_timeout: %w", err))
		}
		c.ShutdownTimeout = d
	}
	if fc.Dashboard.ChartCacheTTL != "" {
		d, err := time.ParseDuration(fc.Dashboard.ChartCacheTTL)
		if err != nil {
			errs = append(errs, fmt.Errorf("dashboard.chart_cache_ttl: %w", err))
		}
		c.ChartCacheTTL = d
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.DataDirectory = getEnv("DATA_DIRECTORY", c.DataDirectory)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)

	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)

	c.PageSize = getEnvInt("PAGE_SIZE", c.PageSize)
	c.TrendWindow = getEnvInt("TREND_WINDOW", c.TrendWindow)
	c.ChartCacheSize = getEnvInt("CHART_CACHE_SIZE", c.ChartCacheSize)
	c.ChartCacheTTL = getEnvDuration("CHART_CACHE_TTL", c.ChartCacheTTL)

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				errs = append(errs, fmt.Sprintf("SQLite database directory '%s' is not a directory", dir))
			}
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid DATABASE_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errs = append(errs, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		errs = append(errs, fmt.Sprintf("invalid page size %d: must be between 1 and 100", c.PageSize))
	}
	// A trend line needs two points.
	if c.TrendWindow < 2 || c.TrendWindow > 24 {
		errs = append(errs, fmt.Sprintf("invalid trend window %d: must be between 2 and 24", c.TrendWindow))
	}
	if c.ChartCacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid chart cache size %d: must be at least 1", c.ChartCacheSize))
	}
	if c.ChartCacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid chart cache TTL %v: must be at least 1 second", c.ChartCacheTTL))
	}
	if c.ShutdownTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
