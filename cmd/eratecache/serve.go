package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/bher20/eratecache/internal/api"
	"github.com/bher20/eratecache/internal/config"
	"github.com/bher20/eratecache/internal/cron"
	"github.com/bher20/eratecache/internal/rates"
	"github.com/bher20/eratecache/internal/storage"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Poll the data directory on a schedule and serve the cached rates over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	const op = "main.serve"

	sched, err := config.ParseSchedule(cfg.Poller.Schedule)
	if err != nil {
		return errors.Wrap(err, op)
	}

	cache := storage.NewRateCache()
	ctrl := cron.NewController(cfg.Poller.DataDir, cfg.Poller.MarkerFile, rates.NewFileLocator(), cache, log)
	scheduler := cron.NewScheduler(ctrl, sched, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      api.NewRouter(cache, ctrl, log),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting eratecache",
		zap.String("dir", cfg.Poller.DataDir),
		zap.String("marker", cfg.Poller.MarkerFile),
		zap.String("schedule", cfg.Poller.Schedule),
		zap.String("addr", srv.Addr),
		zap.String("go_version", runtime.Version()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.Run(gctx, cfg.Poller.RunOnStart)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, op)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("stopping server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
