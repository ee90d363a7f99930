package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	OWM      OWMConfig      `mapstructure:"owm"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Store    StoreConfig    `mapstructure:"store"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// OWMConfig holds the OpenWeatherMap credential and endpoint overrides.
type OWMConfig struct {
	APIKey       string `mapstructure:"api_key"`
	GeocodingURL string `mapstructure:"geocoding_url"`
	CurrentURL   string `mapstructure:"current_url"`
	OneCallURL   string `mapstructure:"one_call_url"`
}

type UpstreamConfig struct {
	// Timeout bounds a single outbound call.
	Timeout time.Duration `mapstructure:"timeout"`
	// RequestTimeout bounds the whole pipeline for one inbound request.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

// ProbeConfig controls the periodic upstream health probe. An interval of 0
// disables it.
type ProbeConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	City     string        `mapstructure:"city"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory, sqlite
	DSN    string `mapstructure:"dsn"`
}

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Load reads configuration from .env, an optional config file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by earlier deployments.
	if err := v.BindEnv("owm.api_key", "OWM_API_KEY", "OPENWEATHER_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind owm.api_key: %w", err)
	}
	if err := v.BindEnv("server.port", "SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind server.port: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.allowed_origins", "*")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("owm.api_key", "")
	v.SetDefault("owm.geocoding_url", "")
	v.SetDefault("owm.current_url", "")
	v.SetDefault("owm.one_call_url", "")

	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("upstream.request_timeout", "20s")

	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", "60s")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.consecutive_failures", 5)

	v.SetDefault("probe.interval", "5m")
	v.SetDefault("probe.city", "London")

	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.dsn", "registers.db")
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	timeouts := map[string]time.Duration{
		"server.read_timeout":      c.Server.ReadTimeout,
		"server.write_timeout":     c.Server.WriteTimeout,
		"upstream.timeout":         c.Upstream.Timeout,
		"upstream.request_timeout": c.Upstream.RequestTimeout,
	}
	for key, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive, got %s", key, d)
		}
	}
	if c.Probe.Interval < 0 {
		return fmt.Errorf("invalid probe.interval: must not be negative, got %s", c.Probe.Interval)
	}

	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}

// ServerAddr returns the listen address in the format ":port".
func (c *Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
