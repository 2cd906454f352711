package shopify

import (
	"context"
	"errors"

	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

const variantGIDPrefix = "gid://shopify/ProductVariant/"

const draftOrderMutation = `
mutation createDraftOrder($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      order {
        id
      }
    }
    userErrors {
      field
      message
    }
  }
}`

// DraftOrderRequest describes a single-line test draft order.
type DraftOrderRequest struct {
	VariantID string
	Quantity  int
	Email     string
}

// DefaultDraftOrderRequest returns a request for one unit of the variant
// addressed to a test customer.
func DefaultDraftOrderRequest(variantID string) DraftOrderRequest {
	return DraftOrderRequest{
		VariantID: variantID,
		Quantity:  1,
		Email:     "test@example.com",
	}
}

type draftOrderData struct {
	DraftOrderCreate struct {
		DraftOrder *struct {
			ID    string `json:"id"`
			Order *struct {
				ID string `json:"id"`
			} `json:"order"`
		} `json:"draftOrder"`
		UserErrors []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		} `json:"userErrors"`
	} `json:"draftOrderCreate"`
}

// CreateDraftOrder creates a draft order for a product variant. Validation
// problems reported by Shopify are returned in the result's UserErrors
// rather than as an error.
func (c *Client) CreateDraftOrder(
	ctx context.Context,
	req DraftOrderRequest,
) (*domain.DraftOrderResult, error) {
	if req.VariantID == "" {
		return nil, errors.New("variant ID is required")
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	input := map[string]any{
		"lineItems": []map[string]any{{
			"variantId": variantGIDPrefix + req.VariantID,
			"quantity":  req.Quantity,
		}},
		"email": req.Email,
		"shippingAddress": map[string]any{
			"address1": "123 Test St",
			"city":     "Testville",
			"province": "ON",
			"country":  "CA",
			"zip":      "K2P 1L4",
		},
		"customAttributes": []map[string]any{{"key": "Test Order", "value": "Yes"}},
	}

	var data draftOrderData
	if err := c.do(ctx, "draftOrderCreate", draftOrderMutation, map[string]any{"input": input}, &data); err != nil {
		return nil, err
	}

	res := &domain.DraftOrderResult{}
	if d := data.DraftOrderCreate.DraftOrder; d != nil {
		res.DraftOrderID = d.ID
		if d.Order != nil {
			res.OrderID = d.Order.ID
		}
	}
	for _, ue := range data.DraftOrderCreate.UserErrors {
		res.UserErrors = append(res.UserErrors, ue.Message)
	}
	return res, nil
}
