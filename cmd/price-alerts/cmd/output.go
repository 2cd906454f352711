package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/shopify-price-alerts/internal/api/client"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printPricesTable(w io.Writer, entries []domain.PriceEntry) error {
	tw := newTabWriter(w)
	tw.writef("PRODUCT ID\tPRICE\n")
	for i := range entries {
		tw.writef("%s\t$%s\n", entries[i].ProductID, entries[i].Price.StringFixed(2))
	}
	return tw.finish()
}

func printPriceDetail(w io.Writer, e *domain.PriceEntry) error {
	tw := newTabWriter(w)
	tw.writef("Product ID:\t%s\n", e.ProductID)
	tw.writef("Last Price:\t$%s\n", e.Price.StringFixed(2))
	return tw.finish()
}

func printOrdersTable(w io.Writer, orders []domain.Order) error {
	tw := newTabWriter(w)
	tw.writef("ORDER\tCUSTOMER\tCREATED\tITEMS\n")
	for i := range orders {
		o := &orders[i]
		tw.writef("%s\t%s\t%s\t%s\n",
			o.Name,
			o.CustomerName,
			o.CreatedAt.Format(timeLayout),
			truncate(lineItemSummary(o.LineItems), 60),
		)
	}
	return tw.finish()
}

func lineItemSummary(items []domain.OrderLineItem) string {
	parts := make([]string, 0, len(items))
	for i := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", items[i].Quantity, items[i].Title))
	}
	return strings.Join(parts, ", ")
}

func printDraftOrder(w io.Writer, r *domain.DraftOrderResult) error {
	tw := newTabWriter(w)
	tw.writef("Draft Order:\t%s\n", orDash(r.DraftOrderID))
	tw.writef("Order:\t%s\n", orDash(r.OrderID))
	for _, ue := range r.UserErrors {
		tw.writef("User Error:\t%s\n", ue)
	}
	return tw.finish()
}

func printReconcile(w io.Writer, r *apiclient.ReconcileResponse) error {
	tw := newTabWriter(w)
	tw.writef("Status:\t%s\n", r.Status)
	tw.writef("Checked:\t%d\n", r.Checked)
	tw.writef("Alerts:\t%d\n", r.Alerts)
	tw.writef("Failed:\t%d\n", r.Failed)
	for _, e := range r.Errors {
		tw.writef("Error:\t%s\n", e)
	}
	return tw.finish()
}

func printWebhookResult(w io.Writer, r *apiclient.WebhookResult) error {
	tw := newTabWriter(w)
	tw.writef("Status:\t%s\n", r.Status)
	tw.writef("Product:\t%s (%s)\n", r.ProductID, r.Title)
	tw.writef("Old Price:\t$%s\n", r.OldPrice.StringFixed(2))
	tw.writef("New Price:\t$%s\n", r.NewPrice.StringFixed(2))
	tw.writef("Decrease:\t%s%%\n", r.PercentageDecrease.StringFixed(2))
	tw.writef("Alert:\t%v\n", r.ShouldAlert)
	tw.writef("Notification:\t%s\n", r.Notification)
	return tw.finish()
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
