package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, time.Second, cfg.Executor.Timeout)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "casemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
transform_cache:
  max_size: 50
  ttl: 10m
executor:
  timeout: 250ms
store:
  driver: sqlite
  path: cache.db
definitions:
  globs: ["defs/*.yaml"]
  watch: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.TransformCache.MaxSize)
	assert.Equal(t, 10*time.Minute, cfg.TransformCache.TTL)
	assert.True(t, cfg.TransformCache.Persistent, "unset keys keep defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Executor.Timeout)
	assert.Equal(t, 50*time.Millisecond, cfg.Executor.SlowThreshold)
	assert.Equal(t, StoreConfig{Driver: DriverSQLite, Path: "cache.db"}, cfg.Store)
	assert.Equal(t, []string{"defs/*.yaml"}, cfg.Definitions.Globs)
	assert.True(t, cfg.Definitions.Watch)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CASEMAP_STORE_DRIVER", "file")
	t.Setenv("CASEMAP_STORE_PATH", "/tmp/casemap")
	t.Setenv("CASEMAP_EXEC_TIMEOUT", "2s")
	t.Setenv("CASEMAP_TRANSFORM_CACHE_SIZE", "7")
	t.Setenv("CASEMAP_DEFINITIONS", "a/*.yaml, b/**/*.yml ,")
	t.Setenv("CASEMAP_WATCH", "yes")
	t.Setenv("CASEMAP_HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StoreConfig{Driver: DriverFile, Path: "/tmp/casemap"}, cfg.Store)
	assert.Equal(t, 2*time.Second, cfg.Executor.Timeout)
	assert.Equal(t, 7, cfg.TransformCache.MaxSize)
	assert.Equal(t, []string{"a/*.yaml", "b/**/*.yml"}, cfg.Definitions.Globs)
	assert.True(t, cfg.Definitions.Watch)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad duration", env: map[string]string{"CASEMAP_EXEC_TIMEOUT": "soon"}},
		{name: "bad size", env: map[string]string{"CASEMAP_COMPAT_CACHE_SIZE": "many"}},
		{name: "unknown driver", env: map[string]string{"CASEMAP_STORE_DRIVER": "redis"}},
		{name: "bad yaml", file: "executor: [\n"},
		{name: "zero timeout", file: "executor:\n  timeout: 0s\n"},
		{name: "unknown log level", env: map[string]string{"CASEMAP_LOG_LEVEL": "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "c.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o644))
			}

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Config{LogLevel: tt.in}.Level()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Setenv("CASEMAP_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
