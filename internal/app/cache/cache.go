package cache

import (
	"fmt"

	"go.uber.org/zap"

	"webcrawler/config"
	"webcrawler/internal/usecase"
)

// New opens the cache backend selected by cfg.CacheBackend.
func New(cfg *config.Config, logger *zap.Logger) (usecase.Cache, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		c, err := NewRedis(cfg.DatabaseURL, cfg.CachePrefix, cfg.CacheExpiration())
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		logger.Info("using redis cache", zap.String("prefix", cfg.CachePrefix), zap.Duration("ttl", cfg.CacheExpiration()))
		return c, nil
	case config.BackendSQLite:
		c, err := NewSQLite(cfg.SQLiteDir)
		if err != nil {
			return nil, fmt.Errorf("sqlite cache: %w", err)
		}
		logger.Info("using sqlite cache", zap.String("path", c.Path()))
		return c, nil
	case config.BackendMemory:
		logger.Info("using in-memory cache")
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownCacheBackend, cfg.CacheBackend)
	}
}
