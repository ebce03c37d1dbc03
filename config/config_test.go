package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, DefaultURLListMaxSize, cfg.URLListMaxSize)
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
	assert.Equal(t, time.Duration(0), cfg.CacheExpiration())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Setenv("IN_CONTAINER", "1")
	path := writeFile(t, `
url_list_max_size = 120
workers = 4
cache_backend = "sqlite"
sqlite_dir = "/tmp/crawl"
cache_ttl = 3600
`)
	cfg, found, err := Load(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 120, cfg.URLListMaxSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, BackendSQLite, cfg.CacheBackend)
	assert.Equal(t, "/tmp/crawl", cfg.SQLiteDir)
	assert.Equal(t, time.Hour, cfg.CacheExpiration())
	assert.Equal(t, DefaultHostPort, cfg.HostPort, "unset keys keep their defaults")
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	t.Setenv("IN_CONTAINER", "1")
	cfg, found, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoadBrokenFile(t *testing.T) {
	t.Setenv("IN_CONTAINER", "1")
	_, _, err := Load(writeFile(t, `url_list_max_size = "many`))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HOST_ADDRESS", "127.0.0.1")
	t.Setenv("HOST_PORT", "8081")
	t.Setenv("URL_LIST_MAX_SIZE", "75")
	t.Setenv("DATABASE_URL", "redis://cache:6379/2")
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	t.Setenv("DEBUG", "true")

	cfg := NewConfig()
	cfg.ApplyEnv()
	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
	assert.Equal(t, 75, cfg.URLListMaxSize)
	assert.Equal(t, "redis://cache:6379/2", cfg.DatabaseURL)
	assert.Equal(t, "kafka:9092", cfg.KafkaBroker)
	assert.True(t, cfg.Debug)
}

func TestApplyEnvUnparsableLimit(t *testing.T) {
	t.Setenv("URL_LIST_MAX_SIZE", "fifty")
	cfg := NewConfig()
	cfg.ApplyEnv()
	assert.Equal(t, DefaultURLListMaxSize, cfg.URLListMaxSize)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"zero limit", func(c *Config) { c.URLListMaxSize = 0 }, ErrInvalidLimit},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrInvalidWorkers},
		{"zero timeout", func(c *Config) { c.ReqTimeout = 0 }, ErrInvalidTimeout},
		{"zero body size", func(c *Config) { c.MaxBodySize = 0 }, ErrInvalidMaxBodySize},
		{"negative ttl", func(c *Config) { c.CacheTTL = -5 }, ErrInvalidCacheTTL},
		{"empty port", func(c *Config) { c.HostPort = "" }, ErrMissingPort},
		{"unknown backend", func(c *Config) { c.CacheBackend = "memcached" }, ErrUnknownCacheBackend},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig()
			tc.modify(cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}
