package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/shopify-price-alerts/internal/shopify"
)

func demoOrderCmd() *cobra.Command {
	var (
		quantity int
		email    string
	)

	cmd := &cobra.Command{
		Use:   "demo-order <variant-id>",
		Short: "Create a demo draft order for a product variant",
		Long: "Creates a tagged test draft order with a placeholder shipping address,\n" +
			"for exercising order lookups against a development store.",
		Example: `  price-alerts demo-order 808950810
  price-alerts demo-order 808950810 --quantity 3 --email buyer@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateNumericID("variant ID", args[0]); err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateShopify(); err != nil {
				return err
			}

			req := shopify.DefaultDraftOrderRequest(args[0])
			if quantity > 0 {
				req.Quantity = quantity
			}
			if email != "" {
				req.Email = email
			}

			res, err := newShopifyClient(cfg).CreateDraftOrder(context.Background(), req)
			if err != nil {
				return fmt.Errorf("creating draft order: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, res)
			}
			if err := printDraftOrder(out, res); err != nil {
				return err
			}
			if len(res.UserErrors) > 0 {
				return fmt.Errorf("shopify rejected the draft order (%d errors)", len(res.UserErrors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&quantity, "quantity", 1, "line item quantity")
	cmd.Flags().StringVar(&email, "email", "", "customer email (default test@example.com)")

	return cmd
}
