package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/shopify-price-alerts/internal/api/handlers"
	"github.com/donaldgifford/shopify-price-alerts/internal/engine"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

// fakePriceReader implements PriceReader for testing.
type fakePriceReader struct {
	entries []domain.PriceEntry
	err     error
}

func (f *fakePriceReader) Prices(_ context.Context) ([]domain.PriceEntry, error) {
	return f.entries, f.err
}

func (f *fakePriceReader) Price(_ context.Context, id string) (*domain.PriceEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.entries {
		if f.entries[i].ProductID == id {
			return &f.entries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", engine.ErrProductNotTracked, id)
}

func TestListPrices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		reader       *fakePriceReader
		wantStatus   int
		wantContains []string
	}{
		{
			name: "returns tracked prices",
			reader: &fakePriceReader{entries: []domain.PriceEntry{
				{ProductID: "10", Price: decimal.RequireFromString("19.99")},
				{ProductID: "20", Price: decimal.RequireFromString("5")},
			}},
			wantStatus:   http.StatusOK,
			wantContains: []string{`"product_id":"10"`, "19.99", `"product_id":"20"`},
		},
		{
			name:         "empty history renders an empty array",
			reader:       &fakePriceReader{},
			wantStatus:   http.StatusOK,
			wantContains: []string{"[]"},
		},
		{
			name:         "history failure",
			reader:       &fakePriceReader{err: errors.New("redis: connection refused")},
			wantStatus:   http.StatusInternalServerError,
			wantContains: []string{"failed to list prices"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterPriceRoutes(api, handlers.NewPricesHandler(tt.reader))

			resp := api.Get("/api/v1/prices")
			require.Equal(t, tt.wantStatus, resp.Code)
			for _, s := range tt.wantContains {
				assert.Contains(t, resp.Body.String(), s)
			}
		})
	}
}

func TestGetPrice(t *testing.T) {
	t.Parallel()

	reader := &fakePriceReader{entries: []domain.PriceEntry{
		{ProductID: "10", Price: decimal.RequireFromString("19.99")},
	}}

	tests := []struct {
		name       string
		reader     *fakePriceReader
		path       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "tracked product",
			reader:     reader,
			path:       "/api/v1/prices/10",
			wantStatus: http.StatusOK,
			wantBody:   "19.99",
		},
		{
			name:       "untracked product",
			reader:     reader,
			path:       "/api/v1/prices/99",
			wantStatus: http.StatusNotFound,
			wantBody:   "product not tracked",
		},
		{
			name:       "non-numeric product id",
			reader:     reader,
			path:       "/api/v1/prices/abc",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "history failure",
			reader:     &fakePriceReader{err: errors.New("disk gone")},
			path:       "/api/v1/prices/10",
			wantStatus: http.StatusInternalServerError,
			wantBody:   "failed to get price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterPriceRoutes(api, handlers.NewPricesHandler(tt.reader))

			resp := api.Get(tt.path)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}
