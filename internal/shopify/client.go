// Package shopify provides a Shopify Admin GraphQL API client abstracted
// behind interfaces for testability.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/donaldgifford/shopify-price-alerts/internal/metrics"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

const (
	// DefaultAPIVersion is the Admin API version used when none is configured.
	DefaultAPIVersion = "2024-10"

	// AccessTokenHeader carries the Admin API access token.
	AccessTokenHeader = "X-Shopify-Access-Token"

	maxErrorBody = 512

	// DefaultMaxResponseBytes caps how much of a GraphQL response is read.
	DefaultMaxResponseBytes = 8 << 20
)

var (
	// ErrProductNotFound is returned when the product query resolves to null.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductHasNoVariants is returned when a product has no priced variant.
	ErrProductHasNoVariants = errors.New("product has no variants")

	// ErrThrottled is returned when Shopify rejects a query for exceeding
	// the cost-based rate limit.
	ErrThrottled = errors.New("shopify API throttled")

	// ErrResponseTooLarge is returned when a response exceeds the read limit.
	ErrResponseTooLarge = errors.New("shopify response too large")
)

// ProductFetcher retrieves the current title and price of a product.
type ProductFetcher interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// OrderLister lists recent orders containing a product.
type OrderLister interface {
	OrdersContainingProduct(ctx context.Context, productID string, since time.Time) ([]domain.Order, error)
}

// DraftOrderCreator creates test draft orders.
type DraftOrderCreator interface {
	CreateDraftOrder(ctx context.Context, req DraftOrderRequest) (*domain.DraftOrderResult, error)
}

// Client implements ProductFetcher, OrderLister and DraftOrderCreator
// against the Admin GraphQL endpoint.
type Client struct {
	endpoint    string
	token       string
	client      *http.Client
	rateLimiter *RateLimiter
	maxBody     int64
}

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the GraphQL endpoint derived from the shop.
func WithEndpoint(u string) Option {
	return func(c *Client) {
		c.endpoint = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter. When set, every query goes
// through Wait() first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithMaxResponseBytes overrides the response size limit. Non-positive
// values keep the default.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// NewClient creates a new Admin API client for the given shop domain
// (e.g. "example.myshopify.com"; a scheme and trailing slash are tolerated).
func NewClient(shop, accessToken, apiVersion string, opts ...Option) *Client {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	c := &Client{
		endpoint: Endpoint(shop, apiVersion),
		token:    accessToken,
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBody:  DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint builds the Admin GraphQL URL for a shop and API version.
func Endpoint(shop, apiVersion string) string {
	host := strings.TrimSpace(shop)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimRight(host, "/")
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", host, apiVersion)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do executes one GraphQL operation and decodes its data into out.
func (c *Client) do(
	ctx context.Context,
	operation string,
	query string,
	variables map[string]any,
	out any,
) (err error) {
	start := time.Now()
	defer func() {
		metrics.ShopifyAPIDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		result := "success"
		if err != nil {
			result = "error"
		}
		metrics.ShopifyAPICallsTotal.WithLabelValues(operation, result).Inc()
	}()

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", operation, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(AccessTokenHeader, c.token)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("executing %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return fmt.Errorf("%s: %w (limit %d bytes)", operation, ErrResponseTooLarge, c.maxBody)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.backoff(resp.Header.Get("Retry-After"))
		return fmt.Errorf("%s: %w (status 429)", operation, ErrThrottled)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"shopify API error (status %d): %s",
			resp.StatusCode,
			truncate(string(body), maxErrorBody),
		)
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return fmt.Errorf("parsing %s response: %w", operation, err)
	}

	if len(gqlResp.Errors) > 0 {
		return c.graphQLErrors(operation, gqlResp.Errors)
	}

	if len(gqlResp.Data) == 0 || string(gqlResp.Data) == "null" {
		return fmt.Errorf("%s response has no data", operation)
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", operation, err)
	}
	return nil
}

func (c *Client) graphQLErrors(operation string, errs []graphQLError) error {
	msgs := make([]string, 0, len(errs))
	throttled := false
	for _, e := range errs {
		msgs = append(msgs, e.Message)
		if e.Extensions.Code == "THROTTLED" {
			throttled = true
		}
	}
	if throttled {
		c.backoff("")
		return fmt.Errorf("%s: %w: %s", operation, ErrThrottled, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%s: graphql errors: %s", operation, strings.Join(msgs, "; "))
}

func (c *Client) backoff(retryAfter string) {
	if c.rateLimiter == nil {
		return
	}
	d := time.Second
	if secs, err := time.ParseDuration(strings.TrimSpace(retryAfter) + "s"); err == nil && secs > 0 {
		d = secs
	}
	c.rateLimiter.Pause(d)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
