package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webcrawler/config"
	"webcrawler/internal/app/cache"
	"webcrawler/internal/app/crawler"
	"webcrawler/internal/app/publisher"
	"webcrawler/internal/app/requester"
	"webcrawler/internal/usecase"
)

// NewRootCmd creates the webcrawler command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webcrawler",
		Short: "Crawl the pages of a domain and serve the urls found",
		Long: `webcrawler walks a website from a seed url, staying on the seed's host,
and keeps the set of urls found in a cache (redis, sqlite or memory).

Use "serve" to run the HTTP service and "crawl" for a one-off crawl.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config-path", "config/config.toml", "path to config file in .toml format")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("cache-backend", "", "override cache_backend (redis, sqlite, memory)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCrawlCmd())

	return cmd
}

// app holds the components shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	cache     usecase.Cache
	publisher usecase.Publisher
	cr        usecase.Crawler
}

func newApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config-path")
	debug, _ := cmd.Flags().GetBool("debug")
	backend, _ := cmd.Flags().GetString("cache-backend")

	cfg, found, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}
	if backend != "" {
		cfg.CacheBackend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("can't initialize logger: %w", err)
	}
	if !found {
		logger.Debug("can't find configs file. using default values", zap.String("path", configPath))
	}

	c, err := cache.New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, cache: c}

	var r usecase.Requester = requester.NewRequester(cfg.RequestTimeout(), logger, nil,
		requester.WithUserAgent(cfg.UserAgent),
		requester.WithMaxBodySize(cfg.MaxBodySize),
	)
	opts := []crawler.Option{
		crawler.WithLimit(cfg.URLListMaxSize),
		crawler.WithWorkers(cfg.Workers),
	}
	if cfg.KafkaBroker != "" {
		a.publisher = publisher.NewKafka(cfg.KafkaBroker, cfg.KafkaTopic)
		opts = append(opts, crawler.WithPublisher(a.publisher))
		logger.Info("publishing crawl events", zap.String("broker", cfg.KafkaBroker), zap.String("topic", cfg.KafkaTopic))
	}
	a.cr = crawler.NewCrawler(r, c, logger, opts...)

	return a, nil
}

// ping checks the cache backend when it supports it.
func (a *app) ping(ctx context.Context) {
	p, ok := a.cache.(interface{ Ping(context.Context) error })
	if !ok {
		return
	}
	if err := p.Ping(ctx); err != nil {
		a.logger.Warn("cache backend unreachable", zap.String("backend", a.cfg.CacheBackend), zap.Error(err))
	}
}

func (a *app) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close publisher", zap.Error(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
