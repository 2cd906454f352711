package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/shopify-price-alerts/internal/engine"
	"github.com/donaldgifford/shopify-price-alerts/internal/metrics"
	"github.com/donaldgifford/shopify-price-alerts/internal/webhook"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

const defaultMaxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// UpdateProcessor runs the price decision for a verified product update.
type UpdateProcessor interface {
	ProcessUpdate(ctx context.Context, ev *domain.ProductUpdateEvent) (*domain.PriceDecision, error)
}

// WebhookHandler receives Shopify product update webhooks. Every delivery
// is authenticated against the raw body before it reaches the processor.
type WebhookHandler struct {
	verifier  *webhook.Verifier
	processor UpdateProcessor
	maxBody   int64
	log       *slog.Logger
}

// WebhookOption configures the WebhookHandler.
type WebhookOption func(*WebhookHandler)

// WithMaxBodyBytes caps the accepted request body size.
func WithMaxBodyBytes(n int64) WebhookOption {
	return func(h *WebhookHandler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// WithWebhookLogger sets a custom logger.
func WithWebhookLogger(l *slog.Logger) WebhookOption {
	return func(h *WebhookHandler) {
		h.log = l
	}
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(v *webhook.Verifier, p UpdateProcessor, opts ...WebhookOption) *WebhookHandler {
	h := &WebhookHandler{
		verifier:  v,
		processor: p,
		maxBody:   defaultMaxBodyBytes,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ProductUpdate verifies and processes a product update delivery.
//
// @Summary Product update webhook
// @Description Verifies the Shopify HMAC signature, compares the product's
// @Description current price with its last observed price and sends an
// @Description alert when the decrease exceeds the configured threshold.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Shopify-Hmac-SHA256 header string true "base64 HMAC-SHA256 of the raw body"
// @Success 200 {object} WebhookResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /webhooks/products/update [post]
func (h *WebhookHandler) ProductUpdate(c echo.Context) error {
	req := c.Request()

	body, err := readBody(req.Body, h.maxBody)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return reject(c, http.StatusRequestEntityTooLarge, metrics.OutcomeInvalidPayload, err.Error())
		}
		return reject(c, http.StatusBadRequest, metrics.OutcomeInvalidPayload, "reading request body failed")
	}

	signature := req.Header.Get(webhook.SignatureHeader)
	if err := h.verifier.Check(body, signature); err != nil {
		if errors.Is(err, webhook.ErrMissingSecret) {
			h.log.Error("rejecting webhook: shared secret is not configured")
			return reject(c, http.StatusInternalServerError, metrics.OutcomeMisconfigured, "server configuration error")
		}
		h.log.Warn("rejecting webhook", "reason", err.Error(), "remote_ip", c.RealIP())
		return reject(c, http.StatusUnauthorized, metrics.OutcomeUnauthorized, "invalid webhook signature")
	}

	d, err := h.processor.ProcessUpdate(req.Context(), &domain.ProductUpdateEvent{
		RawBody:   body,
		Signature: signature,
	})
	switch {
	case err == nil:
		notification := NotificationSkipped
		if d.ShouldAlert {
			notification = NotificationSent
		}
		return processed(c, d, notification)
	case errors.Is(err, engine.ErrNotification) && d != nil:
		return processed(c, d, NotificationFailed)
	case errors.Is(err, engine.ErrInvalidPayload):
		return reject(c, http.StatusBadRequest, metrics.OutcomeInvalidPayload, "invalid webhook payload")
	case errors.Is(err, engine.ErrUpstreamFetch):
		return reject(c, http.StatusBadGateway, metrics.OutcomeUpstreamFailed, "failed to fetch product details")
	case errors.Is(err, engine.ErrPersistence):
		return reject(c, http.StatusInternalServerError, metrics.OutcomePersistFailed, "failed to update price history")
	default:
		h.log.Error("processing webhook failed", "error", err)
		return reject(c, http.StatusInternalServerError, metrics.OutcomeInternalError, "internal server error")
	}
}

func processed(c echo.Context, d *domain.PriceDecision, notification string) error {
	metrics.WebhooksTotal.WithLabelValues(metrics.OutcomeProcessed).Inc()
	return c.JSON(http.StatusOK, WebhookResponse{
		Status:        "processed",
		PriceDecision: d,
		Notification:  notification,
	})
}

func reject(c echo.Context, status int, outcome, msg string) error {
	metrics.WebhooksTotal.WithLabelValues(outcome).Inc()
	return c.JSON(status, ErrorResponse{Error: msg})
}

// readBody reads at most limit bytes. The signature covers the exact
// bytes received, so the body is never decoded before verification.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}
