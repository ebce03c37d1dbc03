package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"webcrawler/internal/app/handlers"
)

const shutdownTimeout = 15 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the crawler HTTP service",
		Long: `Serve exposes the crawler over HTTP:

  POST /crawl               body: seed url, crawls (or replays) the domain
  GET  /urls?domain=...     urls stored for a crawled domain
  GET  /nb-urls?domain=...  number of urls stored for a crawled domain
  GET  /health              liveness

SIGUSR1 raises the url limit of the next crawls by --limit-step.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().Int32("limit-step", 10, "url limit increase applied on SIGUSR1")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	step, _ := cmd.Flags().GetInt32("limit-step")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	a.ping(ctx)

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           handlers.NewServer(a.cr, a.cache, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info(fmt.Sprintf("listening to %s", srv.Addr), zap.Int("url_limit", a.cr.Limit()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigUsr1Ch := make(chan os.Signal, 1)      //Создаем канал для приема сигналов SIGUSR1
	signal.Notify(sigUsr1Ch, syscall.SIGUSR1) //Подписываемся на сигнал SIGUSR1
	defer signal.Stop(sigUsr1Ch)

	for {
		select {
		case err := <-errCh:
			return err
		case <-sigUsr1Ch:
			a.cr.IncLimit(step) //Если пришел сигнал SigUsr1 - увеличиваем лимит ссылок
			a.logger.Info(fmt.Sprintf("sigusr1 detected, new url limit: %d", a.cr.Limit()))
		case <-ctx.Done():
			a.logger.Info("signal detected. server shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		}
	}
}
