package handlers

import (
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid webhook signature"`
}

// StatusResponse is a generic status response body.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Notification delivery states reported on a processed webhook.
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)

// WebhookResponse is the body returned for a processed product update.
type WebhookResponse struct {
	Status string `json:"status" example:"processed"`
	*domain.PriceDecision
	Notification string `json:"notification" example:"skipped"`
}
