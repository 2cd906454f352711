package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Re-check every tracked product now",
		Long: "Asks a running server to re-fetch every tracked product and run the\n" +
			"price-drop decision, catching changes whose webhooks were missed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := newClient().TriggerReconcile(context.Background())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput() {
				return outputJSON(out, res)
			}
			return printReconcile(out, res)
		},
	}
}
