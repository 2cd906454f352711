package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/shopify-price-alerts/internal/engine"
	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

// PriceReader exposes the recorded price history.
type PriceReader interface {
	Prices(ctx context.Context) ([]domain.PriceEntry, error)
	Price(ctx context.Context, productID string) (*domain.PriceEntry, error)
}

// PricesHandler handles price history read operations.
type PricesHandler struct {
	reader PriceReader
}

// NewPricesHandler creates a new PricesHandler.
func NewPricesHandler(r PriceReader) *PricesHandler {
	return &PricesHandler{reader: r}
}

// --- Input/Output types ---

// ListPricesOutput is the response for listing recorded prices.
type ListPricesOutput struct {
	Body []domain.PriceEntry
}

// GetPriceInput is the input for getting a single recorded price.
type GetPriceInput struct {
	ProductID string `path:"product_id" pattern:"^[0-9]+$" doc:"Numeric Shopify product ID"`
}

// GetPriceOutput is the response for getting a single recorded price.
type GetPriceOutput struct {
	Body domain.PriceEntry
}

// --- Handlers ---

// ListPrices returns the last observed price of every tracked product.
func (h *PricesHandler) ListPrices(
	ctx context.Context,
	_ *struct{},
) (*ListPricesOutput, error) {
	entries, err := h.reader.Prices(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list prices: " + err.Error())
	}

	if entries == nil {
		entries = []domain.PriceEntry{}
	}

	return &ListPricesOutput{Body: entries}, nil
}

// GetPrice returns the last observed price of one product.
func (h *PricesHandler) GetPrice(
	ctx context.Context,
	input *GetPriceInput,
) (*GetPriceOutput, error) {
	entry, err := h.reader.Price(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, engine.ErrProductNotTracked) {
			return nil, huma.Error404NotFound("product not tracked")
		}
		return nil, huma.Error500InternalServerError("failed to get price: " + err.Error())
	}

	return &GetPriceOutput{Body: *entry}, nil
}

// RegisterPriceRoutes registers price history read endpoints with the Huma API.
func RegisterPriceRoutes(api huma.API, h *PricesHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-prices",
		Method:      http.MethodGet,
		Path:        "/api/v1/prices",
		Summary:     "List recorded prices",
		Description: "Returns the last observed price of every tracked product, ordered by product ID.",
		Tags:        []string{"prices"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.ListPrices)

	huma.Register(api, huma.Operation{
		OperationID: "get-price",
		Method:      http.MethodGet,
		Path:        "/api/v1/prices/{product_id}",
		Summary:     "Get recorded price",
		Description: "Returns the last observed price of a single product.",
		Tags:        []string{"prices"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.GetPrice)
}
