// Package config loads engine settings from YAML with CASEMAP_* environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"casestudy-mapper/internal/cache"
)

// Durable store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CASEMAP_"

// Config is the full engine configuration.
type Config struct {
	CompatibilityCache cache.Config      `yaml:"compatibility_cache"`
	TransformCache     cache.Config      `yaml:"transform_cache"`
	Executor           ExecutorConfig    `yaml:"executor"`
	Store              StoreConfig       `yaml:"store"`
	Definitions        DefinitionsConfig `yaml:"definitions"`
	HTTP               HTTPConfig        `yaml:"http"`
	LogLevel           string            `yaml:"log_level"`
}

// ExecutorConfig bounds transformation runs.
type ExecutorConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
}

// StoreConfig selects the durable store behind persistent caches.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is a directory for the file driver and a database file for sqlite.
	Path string `yaml:"path"`
}

// DefinitionsConfig locates transformation definition files.
type DefinitionsConfig struct {
	Globs []string `yaml:"globs"`
	Watch bool     `yaml:"watch"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CompatibilityCache: cache.Config{
			MaxSize:         1000,
			TTL:             time.Hour,
			StorageKey:      "compatibility",
			CleanupInterval: 5 * time.Minute,
		},
		TransformCache: cache.Config{
			MaxSize:         500,
			TTL:             30 * time.Minute,
			Persistent:      true,
			StorageKey:      "transform",
			CleanupInterval: time.Minute,
		},
		Executor: ExecutorConfig{
			Timeout:       time.Second,
			SlowThreshold: 50 * time.Millisecond,
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Path:   ".casemap",
		},
		Definitions: DefinitionsConfig{
			Globs: []string{"transforms/**/*.yaml"},
		},
		HTTP:     HTTPConfig{Addr: ":8080"},
		LogLevel: "info",
	}
}

// Load reads path (if not empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate checks driver names and durations.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store driver %q needs a path", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	if c.Executor.Timeout <= 0 {
		errs = append(errs, errors.New("executor timeout must be positive"))
	}

	if c.Executor.SlowThreshold <= 0 {
		errs = append(errs, errors.New("executor slow threshold must be positive"))
	}

	if c.CompatibilityCache.MaxSize < 0 || c.TransformCache.MaxSize < 0 {
		errs = append(errs, errors.New("cache sizes must not be negative"))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel (debug, info, warn, error). Empty means info.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}

	return l, nil
}

func (c *Config) applyEnv() error {
	var errs []error

	c.Store.Driver = getenv("STORE_DRIVER", c.Store.Driver)
	c.Store.Path = getenv("STORE_PATH", c.Store.Path)
	c.HTTP.Addr = getenv("HTTP_ADDR", c.HTTP.Addr)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.Definitions.Watch = getenvBool("WATCH", c.Definitions.Watch)

	if v := getenv("DEFINITIONS", ""); v != "" {
		c.Definitions.Globs = splitList(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"EXEC_TIMEOUT", &c.Executor.Timeout},
		{"SLOW_THRESHOLD", &c.Executor.SlowThreshold},
		{"COMPAT_CACHE_TTL", &c.CompatibilityCache.TTL},
		{"TRANSFORM_CACHE_TTL", &c.TransformCache.TTL},
	}
	for _, d := range durations {
		if err := getenvDuration(d.key, d.dst); err != nil {
			errs = append(errs, err)
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"COMPAT_CACHE_SIZE", &c.CompatibilityCache.MaxSize},
		{"TRANSFORM_CACHE_SIZE", &c.TransformCache.MaxSize},
	}
	for _, n := range ints {
		if err := getenvInt(n.key, n.dst); err != nil {
			errs = append(errs, err)
		}
	}

	c.TransformCache.Persistent = getenvBool("TRANSFORM_CACHE_PERSISTENT", c.TransformCache.Persistent)

	return errors.Join(errs...)
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(EnvPrefix + k); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(EnvPrefix + k); ok {
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}

	return fallback
}

func getenvDuration(k string, dst *time.Duration) error {
	v := getenv(k, "")
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
	}

	*dst = d

	return nil
}

func getenvInt(k string, dst *int) error {
	v := getenv(k, "")
	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", EnvPrefix, k, err)
	}

	*dst = n

	return nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
