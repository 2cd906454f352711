package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/shopify-price-alerts/internal/config"
	"github.com/donaldgifford/shopify-price-alerts/internal/history"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL price history migrations",
		Long: "Creates or upgrades the price_history schema. Only needed for the\n" +
			"postgres backend; serve also migrates on startup.",
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if cfg.History.Backend != config.BackendPostgres {
		return errors.New("migrate requires history.backend postgres (PRICE_HISTORY_BACKEND=postgres)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	s, err := history.NewPostgresStore(ctx, cfg.History.Postgres.URL, 1)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer s.Close()

	log.Info("running migrations")

	if err := s.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Info("migrations complete")
	return nil
}
