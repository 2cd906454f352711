package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func webhookCmd() *cobra.Command {
	webhookRoot := &cobra.Command{
		Use:   "webhook",
		Short: "Webhook development tools",
	}

	webhookRoot.AddCommand(webhookSendCmd())

	return webhookRoot
}

func webhookSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <product-id>",
		Short: "Send a signed product update webhook to a running server",
		Long: "Signs a minimal product update body with SHOPIFY_WEBHOOK_SECRET and\n" +
			"posts it to --server, the way Shopify delivers it.",
		Example: `  price-alerts webhook send 632910392
  price-alerts webhook send 632910392 --server http://localhost:3000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateNumericID("product ID", args[0]); err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Shopify.WebhookSecret == "" {
				return errors.New("SHOPIFY_WEBHOOK_SECRET is required to sign the webhook")
			}

			res, err := newClient().SendProductUpdate(context.Background(), args[0], cfg.Shopify.WebhookSecret)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, res)
			}
			return printWebhookResult(out, res)
		},
	}
}
