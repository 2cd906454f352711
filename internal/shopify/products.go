package shopify

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

const productQuery = `
query($productId: ID!) {
  product(id: $productId) {
    title
    variants(first: 1) {
      edges {
        node {
          price
        }
      }
    }
  }
}`

type productData struct {
	Product *struct {
		Title    string `json:"title"`
		Variants struct {
			Edges []struct {
				Node struct {
					Price string `json:"price"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"variants"`
	} `json:"product"`
}

// GetProduct fetches a product's title and the price of its first variant.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var data productData
	vars := map[string]any{"productId": domain.ProductGID(productID)}
	if err := c.do(ctx, "product", productQuery, vars, &data); err != nil {
		return nil, err
	}

	if data.Product == nil {
		return nil, fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}
	if len(data.Product.Variants.Edges) == 0 {
		return nil, fmt.Errorf("product %s: %w", productID, ErrProductHasNoVariants)
	}

	raw := data.Product.Variants.Edges[0].Node.Price
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing price %q for product %s: %w", raw, productID, err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("product %s has negative price %s", productID, raw)
	}

	return &domain.Product{
		ID:    productID,
		Title: data.Product.Title,
		Price: price,
	}, nil
}
