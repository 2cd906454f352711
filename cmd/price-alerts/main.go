// Package main is the entry point for price-alerts.
package main

import (
	"os"

	"github.com/donaldgifford/shopify-price-alerts/cmd/price-alerts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
