// Package config defines service configuration and its loading.
//
// Conventions:
//   - New() returns a Config populated with defaults.
//   - Load(ctx) layers an optional YAML file and UNIHUSTLE_* environment
//     variables on top of the defaults.
//   - Keys are flat so each maps to one environment variable.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Goutamchandnani/UniHustle/internal/domain/matching"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// QueueSize bounds the in-memory recompute queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`
	// DedupeSize caps the in-flight fingerprint set; 0 means unbounded.
	DedupeSize int `koanf:"dedupe_size"`
	// MaxFeedLimit caps GET /matches/{student_id}?limit.
	MaxFeedLimit int `koanf:"max_feed_limit"`

	CommuteMinutes   int `koanf:"commute_minutes"`
	MinBufferMinutes int `koanf:"min_buffer_minutes"`

	WeightLocation    float64 `koanf:"weight_location"`
	WeightSchedule    float64 `koanf:"weight_schedule"`
	WeightSkills      float64 `koanf:"weight_skills"`
	WeightPreferences float64 `koanf:"weight_preferences"`
	WeightSalary      float64 `koanf:"weight_salary"`

	// Store selects the match store: memory, redis or postgres.
	Store          string `koanf:"store"`
	RedisAddr      string `koanf:"redis_addr"`
	RedisPassword  string `koanf:"redis_password"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
	PostgresDSN    string `koanf:"postgres_dsn"`

	// ReedAPIKey enables the Reed job source when set.
	ReedAPIKey           string   `koanf:"reed_api_key"`
	ReedBaseURL          string   `koanf:"reed_base_url"`
	SourceKeywords       []string `koanf:"source_keywords"`
	SourceTimeoutSeconds int      `koanf:"source_timeout_seconds"`
}

// New creates a Config with defaults.
func New() *Config {
	w := matching.DefaultWeights()
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		ShutdownTimeoutSeconds: 10,
		QueueSize:              10_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             100_000,
		MaxFeedLimit:           100,
		CommuteMinutes:         30,
		MinBufferMinutes:       15,
		WeightLocation:         w.Location,
		WeightSchedule:         w.Schedule,
		WeightSkills:           w.Skills,
		WeightPreferences:      w.Preferences,
		WeightSalary:           w.Salary,
		Store:                  StoreMemory,
		RedisAddr:              "localhost:6379",
		RedisKeyPrefix:         "unihustle",
		ReedBaseURL:            "https://www.reed.co.uk/api/1.0",
		SourceTimeoutSeconds:   30,
	}
}

// DefaultSourceKeywords are searched when no keywords are configured.
func DefaultSourceKeywords() []string {
	return []string{"part time student", "retail part time", "barista", "tutor"}
}

// Keywords returns the configured source keywords or the defaults.
func (c *Config) Keywords() []string {
	if len(c.SourceKeywords) == 0 {
		return DefaultSourceKeywords()
	}
	return append([]string(nil), c.SourceKeywords...)
}

// Weights returns the configured engine weights.
func (c *Config) Weights() matching.Weights {
	return matching.Weights{
		Location:    c.WeightLocation,
		Schedule:    c.WeightSchedule,
		Skills:      c.WeightSkills,
		Preferences: c.WeightPreferences,
		Salary:      c.WeightSalary,
	}
}

// CommuteTime returns the commute as a duration.
func (c *Config) CommuteTime() time.Duration {
	return time.Duration(c.CommuteMinutes) * time.Minute
}

// MinBuffer returns the personal buffer as a duration.
func (c *Config) MinBuffer() time.Duration {
	return time.Duration(c.MinBufferMinutes) * time.Minute
}

// ShutdownTimeout returns the graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// SourceTimeout bounds one job source run.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.MaxFeedLimit <= 0:
		return fmt.Errorf("%w: max_feed_limit must be positive", ErrInvalidConfig)
	case c.CommuteMinutes < 0 || c.MinBufferMinutes < 0:
		return fmt.Errorf("%w: commute and buffer minutes must not be negative", ErrInvalidConfig)
	}

	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis store", ErrInvalidConfig)
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}

	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
