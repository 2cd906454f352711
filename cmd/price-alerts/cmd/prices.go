package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func pricesCmd() *cobra.Command {
	pricesRoot := &cobra.Command{
		Use:   "prices",
		Short: "Inspect recorded prices",
		Long:  "Read the last observed price of tracked products from a running server.",
	}

	pricesRoot.AddCommand(pricesListCmd(), pricesGetCmd())

	return pricesRoot
}

func pricesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every tracked product's last price",
		Example: `  price-alerts prices list
  price-alerts prices list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := newClient().ListPrices(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No prices recorded.")
				return nil
			}
			return printPricesTable(out, entries)
		},
	}
}

func pricesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <product-id>",
		Short:   "Show a product's last recorded price",
		Example: `  price-alerts prices get 632910392`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateNumericID("product ID", args[0]); err != nil {
				return err
			}
			entry, err := newClient().GetPrice(context.Background(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, entry)
			}
			return printPriceDetail(out, entry)
		},
	}
}
