package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/donaldgifford/shopify-price-alerts/internal/webhook"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

// WebhookResult is the service's reply to a processed product update.
type WebhookResult struct {
	Status string `json:"status"`
	domain.PriceDecision
	Notification string `json:"notification"`
}

// SendProductUpdate delivers a signed product update webhook for
// productID, the way Shopify would.
func (c *Client) SendProductUpdate(ctx context.Context, productID, secret string) (*WebhookResult, error) {
	if _, err := strconv.ParseUint(productID, 10, 64); err != nil {
		return nil, fmt.Errorf("product ID must be numeric: %q", productID)
	}
	body := fmt.Appendf(nil, `{"id":%s}`, productID)

	var res WebhookResult
	err := c.do(ctx, &request{
		method:  http.MethodPost,
		path:    "/webhooks/products/update",
		raw:     body,
		headers: map[string]string{webhook.SignatureHeader: webhook.Sign(body, secret)},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
