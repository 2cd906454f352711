// Package cmd implements the price-alerts CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apiclient "github.com/donaldgifford/shopify-price-alerts/internal/api/client"
	"github.com/donaldgifford/shopify-price-alerts/internal/config"
	"github.com/donaldgifford/shopify-price-alerts/internal/shopify"
	"github.com/donaldgifford/shopify-price-alerts/pkg/logger"
)

const defaultEnvFile = ".env"

var (
	cfgFile string
	envFile string
	rootCmd = &cobra.Command{
		Use:   "price-alerts",
		Short: "Alert on Shopify product price drops",
		Long: "price-alerts receives Shopify product update webhooks, compares each\n" +
			"product's price with the last price it saw, and emails an alert when\n" +
			"the drop exceeds the configured threshold. It also ships store tooling:\n" +
			"order lookups, demo draft orders and test alerts.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "optional YAML config file")
	rootCmd.PersistentFlags().
		StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file read when present")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:3000", "API server URL for client commands")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("api-token", "", "bearer token for the API server (env PRICE_ALERTS_API_TOKEN)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("api-token", rootCmd.PersistentFlags().Lookup("api-token")))
	viper.SetEnvPrefix("PRICE_ALERTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		ordersCmd(),
		demoOrderCmd(),
		testAlertCmd(),
		pricesCmd(),
		reconcileCmd(),
		webhookCmd(),
		versionCmd(),
	)
}

// loadConfig reads configuration from the --config file, the dotenv file
// and the environment. A missing default .env file is not an error.
func loadConfig() (*config.Config, error) {
	opts := config.Options{Path: cfgFile, EnvFile: envFile}
	if envFile == defaultEnvFile {
		if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
			opts.EnvFile = ""
		}
	}

	cfg, err := config.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

func newShopifyClient(cfg *config.Config) *shopify.Client {
	return shopify.NewClient(
		cfg.Shopify.Shop,
		cfg.Shopify.AccessToken,
		cfg.Shopify.APIVersion,
		shopify.WithHTTPClient(&http.Client{
			Timeout:   cfg.Shopify.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
		shopify.WithRateLimiter(shopify.NewRateLimiter(
			cfg.Shopify.RateLimit.PerSecond,
			cfg.Shopify.RateLimit.Burst,
		)),
	)
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"), apiclient.WithToken(viper.GetString("api-token")))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
