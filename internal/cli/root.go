// Package cli implements the crmctl operator commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/hassan3301/dailycrm/internal/adapter/postgres"
	"github.com/hassan3301/dailycrm/internal/app"
	"github.com/hassan3301/dailycrm/internal/config"
)

// NewRootCmd builds the crmctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Operate a dailycrm deployment",
		Long:          "Administrative commands for dailycrm: migrations, users, tokens and offline reply interpretation.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       app.BuildVersion(),
	}

	root.AddCommand(
		newMigrateCmd(),
		newUserCmd(),
		newTokenCmd(),
		newInterpretCmd(),
	)
	return root
}

// env is what most commands need: configuration, a logger and, lazily, a pool.
type env struct {
	cfg *config.Config
	log *slog.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: app.NewLogger(cfg.Log)}, nil
}

func (e *env) connect(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, e.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}
