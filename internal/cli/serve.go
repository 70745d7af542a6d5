package cli

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

	"github.com/kailas-cloud/mealmate/internal/metrics"
	"github.com/kailas-cloud/mealmate/internal/presenter"
	chiTransport "github.com/kailas-cloud/mealmate/internal/transport/chi"
	"github.com/kailas-cloud/mealmate/internal/version"
)

// ServeCmd returns the serve command.
func ServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, logger, err := opts.bootstrap(ctx, "")
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			defer app.Close()

			cfg := app.Config
			logger.Info("Starting mealmate API server",
				zap.String("version", version.Version),
				zap.String("commit", version.Commit),
				zap.String("env", opts.environment()),
				zap.Int("http_port", cfg.HTTP.Port),
				zap.String("storage_driver", cfg.Storage.Driver),
			)

			metrics.RegisterHTTPMetrics()

			board := &presenter.Board{}
			binder := app.Binder(presenter.Targets{Observer: board})
			defer binder.Close()
			binder.Mount(ctx)

			server := chiTransport.NewServer(binder, app.Health, logger)
			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
				Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
				ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
				WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
			}

			err = runServer(ctx, srv, time.Duration(cfg.HTTP.ShutdownSec)*time.Second, logger)
			if v, ok := board.View(); ok {
				logger.Info("Final quota", zap.Int("count", v.Count), zap.String("week_anchor", v.WeekAnchor))
			}
			return err
		},
	}
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
