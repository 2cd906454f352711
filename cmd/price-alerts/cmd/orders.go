package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultOrderDays = 30

func ordersCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "orders [product-id]",
		Short: "List recent orders containing a product",
		Long: "Lists orders created in the last --days days that contain the product.\n" +
			"Prompts for the product ID when it is not given.",
		Example: `  price-alerts orders 632910392
  price-alerts orders --days 7 --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive (got %d)", days)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateShopify(); err != nil {
				return err
			}

			var productID string
			if len(args) == 1 {
				productID = args[0]
			} else {
				productID, err = prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Enter product ID: ")
				if err != nil {
					return err
				}
			}
			if err := validateNumericID("product ID", productID); err != nil {
				return err
			}

			since := time.Now().AddDate(0, 0, -days)
			orders, err := newShopifyClient(cfg).OrdersContainingProduct(context.Background(), productID, since)
			if err != nil {
				return fmt.Errorf("fetching orders: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, orders)
			}
			if len(orders) == 0 {
				fmt.Fprintf(out, "No orders found containing product %s in the last %d days.\n", productID, days)
				return nil
			}
			return printOrdersTable(out, orders)
		},
	}

	cmd.Flags().IntVar(&days, "days", defaultOrderDays, "how many days back to search")

	return cmd
}

// prompt writes label to w and reads one trimmed line from r.
func prompt(r io.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no input given")
	}
	return line, nil
}

func validateNumericID(name, id string) error {
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return fmt.Errorf("%s must be numeric (got %q)", name, id)
	}
	return nil
}
