// Package main implements a mock Shopify Admin API for local development.
// It answers the product, orders and draftOrderCreate GraphQL operations
// from an in-memory catalog, and can deliver signed product update
// webhooks to a running price-alerts server when a price is changed.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/shopify-price-alerts/internal/webhook"
)

const (
	productGIDPrefix = "gid://shopify/Product/"
	accessTokenHdr   = "X-Shopify-Access-Token"
)

type product struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// catalog is the mutable product set served by the mock.
type catalog struct {
	mu       sync.RWMutex
	products map[string]product
	drafts   atomic.Int64
}

func newCatalog(seed map[string]product) *catalog {
	c := &catalog{products: make(map[string]product, len(seed))}
	for id, p := range seed {
		c.products[id] = p
	}
	return c
}

func (c *catalog) get(id string) (product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	return p, ok
}

func (c *catalog) setPrice(id, price string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return false
	}
	p.Price = price
	c.products[id] = p
	return true
}

func (c *catalog) ids() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.products))
	for id := range c.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var defaultCatalog = map[string]product{
	"632910392": {Title: "IPod Nano - 8GB", Price: "199.00"},
	"921728736": {Title: "IPod Touch 8GB", Price: "199.00"},
	"108828309": {Title: "Draft", Price: "10.00"},
}

// webhookTarget delivers product updates to the price-alerts server.
type webhookTarget struct {
	url    string
	secret string
	client *http.Client
}

func (w *webhookTarget) deliver(id string) error {
	body := fmt.Appendf(nil, `{"id":%s,"admin_graphql_api_id":"%s%s"}`, id, productGIDPrefix, id)
	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Topic", "products/update")
	req.Header.Set(webhook.SignatureHeader, webhook.Sign(body, w.secret))

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook rejected with status %d", resp.StatusCode)
	}
	return nil
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	catalogFile := flag.String("catalog", "", "optional JSON catalog: {\"<id>\": {\"title\": ..., \"price\": ...}}")
	webhookURL := flag.String("webhook-url", "", "price-alerts webhook URL notified on price changes")
	secret := flag.String("secret", os.Getenv("SHOPIFY_WEBHOOK_SECRET"), "webhook signing secret")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	seed := defaultCatalog
	if *catalogFile != "" {
		loaded, err := loadCatalog(*catalogFile)
		if err != nil {
			logger.Error("failed to load catalog", "path", *catalogFile, "error", err)
			os.Exit(1)
		}
		seed = loaded
	}
	cat := newCatalog(seed)
	logger.Info("loaded catalog", "products", len(seed))

	var target *webhookTarget
	if *webhookURL != "" {
		target = &webhookTarget{url: *webhookURL, secret: *secret, client: &http.Client{Timeout: 10 * time.Second}}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/api/{version}/graphql.json", graphQLHandler(logger, cat))
	mux.HandleFunc("PUT /mock/products/{id}/price", setPriceHandler(logger, cat, target))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock Shopify server", "addr", addr, "webhook_url", *webhookURL)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(path string) (map[string]product, error) {
	data, err := os.ReadFile(path) //nolint:gosec // catalog path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var products map[string]product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return products, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func graphQLHandler(logger *slog.Logger, cat *catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(accessTokenHdr) == "" {
			logger.Warn("graphql request missing access token")
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"errors": "[API] Invalid API key or access token (unrecognized login or wrong password)",
			})
			return
		}

		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errors": "invalid JSON body"})
			return
		}

		switch {
		case strings.Contains(req.Query, "draftOrderCreate"):
			n := cat.drafts.Add(1)
			logger.Info("draft order created", "draft", n)
			writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
				"draftOrderCreate": map[string]any{
					"draftOrder": map[string]any{"id": fmt.Sprintf("gid://shopify/DraftOrder/%d", n)},
					"userErrors": []any{},
				},
			}})
		case strings.Contains(req.Query, "orders("):
			writeJSON(w, http.StatusOK, ordersResponse(cat))
		case strings.Contains(req.Query, "product("):
			gid, _ := req.Variables["productId"].(string)
			writeJSON(w, http.StatusOK, productResponse(cat, strings.TrimPrefix(gid, productGIDPrefix)))
			logger.Info("product", "gid", gid)
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"errors": []map[string]any{{"message": "unsupported operation"}},
			})
		}
	}
}

func productResponse(cat *catalog, id string) map[string]any {
	p, ok := cat.get(id)
	if !ok {
		return map[string]any{"data": map[string]any{"product": nil}}
	}
	return map[string]any{"data": map[string]any{"product": map[string]any{
		"title": p.Title,
		"variants": map[string]any{"edges": []any{
			map[string]any{"node": map[string]any{"price": p.Price}},
		}},
	}}}
}

// ordersResponse returns a single page with one order per catalog product.
func ordersResponse(cat *catalog) map[string]any {
	ids := cat.ids()
	edges := make([]any, 0, len(ids))
	for i, id := range ids {
		p, _ := cat.get(id)
		edges = append(edges, map[string]any{"node": map[string]any{
			"id":        fmt.Sprintf("gid://shopify/Order/%d", 1000+i),
			"name":      fmt.Sprintf("#%d", 1001+i),
			"createdAt": time.Now().UTC().Add(-time.Duration(i+1) * time.Hour).Format(time.RFC3339),
			"customer":  nil,
			"lineItems": map[string]any{"edges": []any{
				map[string]any{"node": map[string]any{
					"quantity": 1,
					"product":  map[string]any{"id": productGIDPrefix + id, "title": p.Title},
				}},
			}},
		}})
	}
	return map[string]any{"data": map[string]any{"orders": map[string]any{
		"edges":    edges,
		"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
	}}}
}

func setPriceHandler(logger *slog.Logger, cat *catalog, target *webhookTarget) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		var body struct {
			Price string `json:"price"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Price == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": `body must be {"price": "<amount>"}`})
			return
		}

		if !cat.setPrice(id, body.Price) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		logger.Info("price changed", "product_id", id, "price", body.Price)

		resp := map[string]any{"product_id": id, "price": body.Price, "webhook": "skipped"}
		if target != nil {
			if err := target.deliver(id); err != nil {
				logger.Error("webhook delivery failed", "product_id", id, "error", err)
				resp["webhook"] = "failed: " + err.Error()
			} else {
				resp["webhook"] = "delivered"
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
