package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/milluces/milluces-backend/internal/config"
	"github.com/milluces/milluces-backend/internal/database"
	"github.com/milluces/milluces-backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "milluces",
	Short: "Milluces lighting store backend",
	Long: `Milluces serves the storefront and admin API of the lighting store.

Run "milluces serve" to start the HTTP server, or use the export and import
commands to move customer and user lists in and out as CSV.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: configuration, a logger and the database.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
	_ = e.log.Sync()
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		_ = log.Sync()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}
