package client

import (
	"context"
	"net/url"

	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

// ListPrices returns the last observed price of every tracked product.
func (c *Client) ListPrices(ctx context.Context) ([]domain.PriceEntry, error) {
	var entries []domain.PriceEntry
	if err := c.get(ctx, "/api/v1/prices", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPrice returns the last observed price of one product.
func (c *Client) GetPrice(ctx context.Context, productID string) (*domain.PriceEntry, error) {
	var entry domain.PriceEntry
	if err := c.get(ctx, "/api/v1/prices/"+url.PathEscape(productID), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReconcileResponse is the result of a reconcile run.
type ReconcileResponse struct {
	Status  string   `json:"status"`
	Checked int      `json:"checked"`
	Alerts  int      `json:"alerts"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// TriggerReconcile runs a reconcile pass and waits for it to finish.
func (c *Client) TriggerReconcile(ctx context.Context) (*ReconcileResponse, error) {
	var resp ReconcileResponse
	if err := c.post(ctx, "/api/v1/reconcile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
