package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/shopify-price-alerts/internal/notify"
)

const testAlertTimeout = 30 * time.Second

// testAlertPayload is the fixed sample alert: 100.00 down to 75.00.
func testAlertPayload(threshold float64) *notify.AlertPayload {
	return &notify.AlertPayload{
		ProductID:          "0",
		Title:              "Test Product",
		OldPrice:           decimal.NewFromInt(100),
		NewPrice:           decimal.NewFromInt(75),
		PercentageDecrease: decimal.NewFromInt(25),
		Threshold:          decimal.NewFromFloat(threshold),
	}
}

func testAlertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "test-alert",
		Aliases: []string{"test-email"},
		Short:   "Send a sample price alert through the configured notifiers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			n, err := notify.New(&cfg.Notifications, log)
			if err != nil {
				return fmt.Errorf("configuring notifications: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), testAlertTimeout)
			defer cancel()

			if err := n.SendAlert(ctx, testAlertPayload(cfg.Alerts.Threshold())); err != nil {
				return fmt.Errorf("sending test alert: %w", err)
			}

			if _, noop := n.(*notify.NoOpNotifier); noop {
				fmt.Fprintln(cmd.OutOrStdout(), "No notifier configured, the test alert was only logged.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test alert sent.")
			return nil
		},
	}
}
