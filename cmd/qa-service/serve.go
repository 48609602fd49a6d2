package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/qa-service/internal/config"
	"github.com/deppfellow/qa-service/internal/database"
	"github.com/deppfellow/qa-service/internal/handler"
	"github.com/deppfellow/qa-service/internal/logger"
	"github.com/deppfellow/qa-service/internal/repository"
	"github.com/deppfellow/qa-service/internal/router"
	"github.com/deppfellow/qa-service/internal/server"
	"github.com/deppfellow/qa-service/internal/service"
	"github.com/spf13/cobra"
)

// DefaultContextTimeout bounds startup migrations and graceful shutdown.
const DefaultContextTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	migrateCtx, cancel := context.WithTimeout(ctx, DefaultContextTimeout)
	err = database.Migrate(migrateCtx, &log, cfg)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos, err := repository.NewRepositories(srv)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}

	services, err := service.NewService(repos)
	if err != nil {
		return fmt.Errorf("could not create services: %w", err)
	}

	srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, services)))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}
