// Package domain defines the core business types for the price alert service.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductGIDPrefix is the Shopify global ID prefix for products.
const ProductGIDPrefix = "gid://shopify/Product/"

// ProductUpdateEvent is a single inbound product update webhook delivery.
// It lives for the duration of one request.
type ProductUpdateEvent struct {
	ProductID string
	RawBody   []byte
	Signature string
}

// Product holds the current catalog details the price check needs.
type Product struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// GID returns the Shopify global ID for the product.
func (p *Product) GID() string {
	return ProductGID(p.ID)
}

// ProductGID converts a numeric product ID into a Shopify global ID.
func ProductGID(id string) string {
	return ProductGIDPrefix + id
}

// PriceDecision is the outcome of comparing a product's current price
// against its last observed price.
type PriceDecision struct {
	ProductID          string          `json:"product_id"`
	Title              string          `json:"title"`
	OldPrice           decimal.Decimal `json:"old_price"`
	NewPrice           decimal.Decimal `json:"new_price"`
	PercentageDecrease decimal.Decimal `json:"percentage_decrease"`
	Threshold          decimal.Decimal `json:"threshold"`
	ShouldAlert        bool            `json:"should_alert"`
	FirstObservation   bool            `json:"first_observation"`
}

// String renders the decision for log lines and CLI output.
func (d *PriceDecision) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s%% decrease, threshold %s%%, alert=%v)",
		d.ProductID,
		d.OldPrice.StringFixed(2),
		d.NewPrice.StringFixed(2),
		d.PercentageDecrease.StringFixed(2),
		d.Threshold.String(),
		d.ShouldAlert,
	)
}

// PriceEntry is one row of the price history as exposed over the API.
type PriceEntry struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

// Order is a storefront order that contains a tracked product.
type Order struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	CustomerName string          `json:"customer_name"`
	CreatedAt    time.Time       `json:"created_at"`
	LineItems    []OrderLineItem `json:"line_items"`
}

// OrderLineItem is one product line in an order.
type OrderLineItem struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

// ContainsProduct reports whether any line item references the product GID.
func (o *Order) ContainsProduct(gid string) bool {
	for i := range o.LineItems {
		if o.LineItems[i].ProductID == gid {
			return true
		}
	}
	return false
}

// DraftOrderResult is returned after creating a demo draft order.
type DraftOrderResult struct {
	DraftOrderID string   `json:"draft_order_id"`
	OrderID      string   `json:"order_id,omitempty"`
	UserErrors   []string `json:"user_errors,omitempty"`
}
