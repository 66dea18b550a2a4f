package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/newspie/internal/build"
	"github.com/joestump/newspie/internal/catalog"
	"github.com/joestump/newspie/internal/config"
	"github.com/joestump/newspie/internal/handler"
	"github.com/joestump/newspie/internal/logging"
	"github.com/joestump/newspie/internal/news"
	"github.com/joestump/newspie/internal/newsapi"
	"github.com/joestump/newspie/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, logCloser, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logCloser.Close() }()
			slog.SetDefault(logger)

			cat, err := catalog.Load(cfg.News.CatalogPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cache, err := store.Open(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()
			go runCachePruner(ctx, cache, cfg.Cache.TTL, logger)

			client := newsapi.New(cfg, cache, logger)
			router := handler.NewRouter(handler.Deps{
				Pipeline: news.NewPipeline(client, cat, cfg.News.PageSize, logger),
				Catalog:  cat,
				Logger:   logger,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					slog.String("addr", cfg.HTTP.Addr),
					slog.String("version", build.Version),
					slog.String("cache", cfg.Cache.Driver),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down", slog.Duration("timeout", cfg.HTTP.ShutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// runCachePruner drops expired cache entries every interval until ctx is done.
func runCachePruner(ctx context.Context, cache store.ResponseCache, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			n, err := cache.Prune(ctx)
			if err != nil {
				logger.Warn("cache prune failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Debug("cache pruned", slog.Int64("removed", n))
			}
		case <-ctx.Done():
			return
		}
	}
}
