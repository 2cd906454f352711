// Package main generates CLI reference documentation from the price-alerts
// command tree.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/shopify-price-alerts/cmd/price-alerts/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	format := flag.String("format", "markdown", "output format (markdown, man)")
	flag.Parse()

	if err := os.MkdirAll(*output, 0o750); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	var err error
	switch *format {
	case "markdown":
		err = doc.GenMarkdownTree(root, *output)
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{Title: "PRICE-ALERTS", Section: "1"}, *output)
	default:
		log.Fatalf("unknown format %q (want markdown or man)", *format)
	}
	if err != nil {
		log.Fatalf("generating docs: %v", err)
	}

	fmt.Printf("CLI %s docs generated in %s/\n", *format, *output)
}
