// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/cityobservatory/cityobservatory/internal/database"
	"github.com/cityobservatory/cityobservatory/internal/location"
)

// Archive backends.
const (
	ArchiveMemory   = "memory"
	ArchivePostgres = "postgres"
)

// Config is the configuration shared by the API server, worker and CLI.
type Config struct {
	Port     int    `validate:"min=1,max=65535"`
	Env      string `validate:"oneof=development test staging production"`
	LogLevel zerolog.Level

	OTelEnabled     bool
	OTelEndpoint    string  `validate:"required_if=OTelEnabled true"`
	OTelSampleRatio float64 `validate:"gte=0,lte=1"`

	// Public client settings.
	DefaultCity   string `validate:"required"`
	FeatureMap    bool
	MapTilerKey   string `validate:"required_if=FeatureMap true"`
	MapStyleLight string `validate:"omitempty,url"`
	MapStyleDark  string `validate:"omitempty,url"`

	// RateLimit is the number of requests allowed per IP per minute.
	RateLimit int `validate:"min=1"`

	CacheTTL        time.Duration `validate:"gt=0"`
	StaleIfErrorTTL time.Duration `validate:"gte=0"`
	ProviderTimeout time.Duration `validate:"gt=0"`

	RefreshInterval    time.Duration `validate:"gte=1m"`
	RefreshConcurrency int           `validate:"min=1,max=32"`
	HistoryRetention   time.Duration `validate:"gt=0"`

	ArchiveBackend string `validate:"oneof=memory postgres"`
	Database       database.Config

	PubSubProjectID    string
	PubSubSubscription string `validate:"required_with=PubSubProjectID"`
}

// IsProduction reports whether the process runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DefaultLocation returns the configured default city.
func (c *Config) DefaultLocation() location.Location {
	loc, err := location.Lookup(c.DefaultCity)
	if err != nil {
		return location.MustLookup(location.DefaultCitySlug)
	}
	return loc
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load() //nolint:errcheck // optional file

	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env{getenv: getenv}

	cfg := &Config{
		Port:     e.int("APP_PORT", 8080),
		Env:      e.str("APP_ENV", "development"),
		LogLevel: e.level("LOG_LEVEL", zerolog.InfoLevel),

		OTelEnabled:     e.bool("OTEL_ENABLED", false),
		OTelEndpoint:    e.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio: e.float("OTEL_SAMPLE_RATIO", 1),

		DefaultCity:   e.str("DEFAULT_CITY", location.DefaultCitySlug),
		FeatureMap:    e.bool("FEATURE_MAP", true),
		MapTilerKey:   e.str("MAPTILER_KEY", ""),
		MapStyleLight: e.str("MAP_STYLE_LIGHT", ""),
		MapStyleDark:  e.str("MAP_STYLE_DARK", ""),

		RateLimit: e.int("RATE_LIMIT_PER_MINUTE", 120),

		CacheTTL:        e.duration("CACHE_TTL", 15*time.Minute),
		StaleIfErrorTTL: e.duration("STALE_IF_ERROR_TTL", time.Hour),
		ProviderTimeout: e.duration("PROVIDER_TIMEOUT", 10*time.Second),

		RefreshInterval:    e.duration("REFRESH_INTERVAL", 15*time.Minute),
		RefreshConcurrency: e.int("REFRESH_CONCURRENCY", 3),
		HistoryRetention:   e.duration("HISTORY_RETENTION", 30*24*time.Hour),

		ArchiveBackend: strings.ToLower(e.str("ARCHIVE_BACKEND", ArchiveMemory)),
		Database: database.Config{
			URL:             e.str("DATABASE_URL", ""),
			Host:            e.str("DB_HOST", "localhost"),
			Port:            e.int("DB_PORT", 5432),
			User:            e.str("DB_USER", "cityobs"),
			Password:        e.str("DB_PASSWORD", "localdev"),
			Database:        e.str("DB_NAME", "cityobs"),
			SSLMode:         e.str("DB_SSL_MODE", "disable"),
			MaxOpenConns:    e.int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    e.int("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: e.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		PubSubProjectID:    e.str("PUBSUB_PROJECT_ID", ""),
		PubSubSubscription: e.str("PUBSUB_SUBSCRIPTION", ""),
	}

	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := location.Lookup(cfg.DefaultCity); err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_CITY %q: %w", cfg.DefaultCity, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// env reads typed values and collects parse errors.
type env struct {
	getenv func(string) string
	errs   []error
}

func (e *env) str(key, def string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *env) int(key string, def int) int {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func (e *env) float(key string, def float64) float64 {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return f
}

func (e *env) bool(key string, def bool) bool {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func (e *env) level(key string, def zerolog.Level) zerolog.Level {
	v := e.getenv(key)
	if v == "" {
		return def
	}
	l, err := zerolog.ParseLevel(strings.ToLower(v))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return l
}
