package config // gofmt

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultHostAddress    = "0.0.0.0"
	DefaultHostPort       = "3000"
	DefaultURLListMaxSize = 50
	DefaultWorkers        = 16
	DefaultReqTimeout     = 10 // seconds
	DefaultMaxBodySize    = 5 * 1024 * 1024
	DefaultUserAgent      = "webcrawler/1.0"
	DefaultCacheBackend   = "redis"
	DefaultDatabaseURL    = "redis://127.0.0.1:6379/0"
	DefaultCachePrefix    = ""
	DefaultSQLiteDir      = "data"
	DefaultKafkaTopic     = "webcrawler.crawl.completed"
)

// Cache backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	ErrInvalidLimit        = errors.New("invalid url_list_max_size: must be positive")
	ErrInvalidWorkers      = errors.New("invalid workers: must be positive")
	ErrInvalidTimeout      = errors.New("invalid req_timeout: must be positive")
	ErrInvalidMaxBodySize  = errors.New("invalid max_body_size: must be positive")
	ErrInvalidCacheTTL     = errors.New("invalid cache_ttl: must be non-negative")
	ErrUnknownCacheBackend = errors.New("unknown cache_backend")
	ErrMissingPort         = errors.New("host_port is empty")
)

type Config struct {
	HostAddress    string `toml:"host_address"`
	HostPort       string `toml:"host_port"`
	URLListMaxSize int    `toml:"url_list_max_size"`
	Workers        int    `toml:"workers"`
	ReqTimeout     int    `toml:"req_timeout"` //in seconds
	MaxBodySize    int64  `toml:"max_body_size"`
	UserAgent      string `toml:"user_agent"`
	CacheBackend   string `toml:"cache_backend"`
	DatabaseURL    string `toml:"database_url"`
	CachePrefix    string `toml:"cache_prefix"`
	CacheTTL       int    `toml:"cache_ttl"` //in seconds, 0 - no expiration
	SQLiteDir      string `toml:"sqlite_dir"`
	KafkaBroker    string `toml:"kafka_broker"` // empty - crawl events are not published
	KafkaTopic     string `toml:"kafka_topic"`
	Debug          bool   `toml:"debug"`
}

func NewConfig() *Config {
	return &Config{
		HostAddress:    DefaultHostAddress,
		HostPort:       DefaultHostPort,
		URLListMaxSize: DefaultURLListMaxSize,
		Workers:        DefaultWorkers,
		ReqTimeout:     DefaultReqTimeout,
		MaxBodySize:    DefaultMaxBodySize,
		UserAgent:      DefaultUserAgent,
		CacheBackend:   DefaultCacheBackend,
		DatabaseURL:    DefaultDatabaseURL,
		CachePrefix:    DefaultCachePrefix,
		SQLiteDir:      DefaultSQLiteDir,
		KafkaTopic:     DefaultKafkaTopic,
	}
}

// Load builds the configuration: defaults, then the toml file at path (a
// missing file keeps the defaults), then .env, then the environment.
// The returned bool reports whether the file was found.
func Load(path string) (*Config, bool, error) {
	cfg := NewConfig()
	found := true
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, false, fmt.Errorf("decode %s: %w", path, err)
		}
		found = false
	}
	if os.Getenv("IN_CONTAINER") == "" {
		// .env is optional outside of containers
		_ = godotenv.Load()
	}
	cfg.ApplyEnv()
	return cfg, found, nil
}

// ApplyEnv overrides the configuration with the environment variables that
// are set. Unparsable numbers keep the current value.
func (c *Config) ApplyEnv() {
	c.HostAddress = getEnv("HOST_ADDRESS", c.HostAddress)
	c.HostPort = getEnv("HOST_PORT", c.HostPort)
	c.URLListMaxSize = parseInt(os.Getenv("URL_LIST_MAX_SIZE"), c.URLListMaxSize)
	c.Workers = parseInt(os.Getenv("WORKERS"), c.Workers)
	c.ReqTimeout = parseInt(os.Getenv("REQ_TIMEOUT"), c.ReqTimeout)
	c.UserAgent = getEnv("USER_AGENT", c.UserAgent)
	c.CacheBackend = getEnv("CACHE_BACKEND", c.CacheBackend)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.CachePrefix = getEnv("CACHE_PREFIX", c.CachePrefix)
	c.CacheTTL = parseInt(os.Getenv("CACHE_TTL"), c.CacheTTL)
	c.SQLiteDir = getEnv("SQLITE_DIR", c.SQLiteDir)
	c.KafkaBroker = getEnv("KAFKA_BROKER", c.KafkaBroker)
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)
	if v, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil {
		c.Debug = v
	}
}

func (c *Config) Validate() error {
	if c.URLListMaxSize <= 0 {
		return ErrInvalidLimit
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.ReqTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	if c.HostPort == "" {
		return ErrMissingPort
	}
	switch c.CacheBackend {
	case BackendRedis, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheBackend, c.CacheBackend)
	}
	return nil
}

func (c *Config) Addr() string {
	return c.HostAddress + ":" + c.HostPort
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.ReqTimeout) * time.Second
}

func (c *Config) CacheExpiration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func parseInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
