package main

import (
	"context"
	"fmt"

	"github.com/deppfellow/qa-service/internal/config"
	"github.com/deppfellow/qa-service/internal/database"
	"github.com/deppfellow/qa-service/internal/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context())
		},
	}
}

func migrate(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogger(cfg.Observability)

	ctx, cancel := context.WithTimeout(ctx, DefaultContextTimeout)
	defer cancel()

	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite migrates on open.
		sqlDB, err := database.OpenSQLite(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
		log.Info().Str("path", cfg.Database.SQLitePath).Msg("sqlite schema up to date")
		return sqlDB.Close()
	}

	if err := database.Migrate(ctx, &log, cfg); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
