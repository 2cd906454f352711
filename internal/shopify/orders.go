package shopify

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

const (
	ordersPageSize = 250
	maxOrderPages  = 100

	// NotAvailable stands in for missing customer or product details.
	NotAvailable = "N/A"
)

const ordersQuery = `
query($cursor: String, $queryString: String!, $first: Int!) {
  orders(first: $first, after: $cursor, query: $queryString) {
    pageInfo {
      hasNextPage
      endCursor
    }
    edges {
      node {
        id
        name
        createdAt
        customer {
          firstName
          lastName
        }
        lineItems(first: 250) {
          edges {
            node {
              product {
                id
                title
              }
              quantity
            }
          }
        }
      }
    }
  }
}`

type ordersData struct {
	Orders struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Edges []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

type orderNode struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Customer  *struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"customer"`
	LineItems struct {
		Edges []struct {
			Node struct {
				Product *struct {
					ID    string `json:"id"`
					Title string `json:"title"`
				} `json:"product"`
				Quantity int `json:"quantity"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

// OrdersContainingProduct pages through orders created at or after since
// and returns those with a line item referencing the product.
func (c *Client) OrdersContainingProduct(
	ctx context.Context,
	productID string,
	since time.Time,
) ([]domain.Order, error) {
	gid := domain.ProductGID(productID)
	queryString := fmt.Sprintf("created_at:>='%s'", since.UTC().Format(time.RFC3339))

	var (
		orders []domain.Order
		cursor *string
	)
	for page := 0; page < maxOrderPages; page++ {
		vars := map[string]any{
			"cursor":      cursor,
			"queryString": queryString,
			"first":       ordersPageSize,
		}

		var data ordersData
		if err := c.do(ctx, "orders", ordersQuery, vars, &data); err != nil {
			return nil, fmt.Errorf("fetching orders page %d: %w", page+1, err)
		}

		for i := range data.Orders.Edges {
			o := toOrder(&data.Orders.Edges[i].Node)
			if o.ContainsProduct(gid) {
				orders = append(orders, o)
			}
		}

		if !data.Orders.PageInfo.HasNextPage || data.Orders.PageInfo.EndCursor == "" {
			return orders, nil
		}
		next := data.Orders.PageInfo.EndCursor
		cursor = &next
	}

	return orders, fmt.Errorf("stopped after %d order pages", maxOrderPages)
}

func toOrder(n *orderNode) domain.Order {
	o := domain.Order{
		ID:           n.ID,
		Name:         n.Name,
		CreatedAt:    n.CreatedAt,
		CustomerName: NotAvailable,
	}
	if n.Customer != nil {
		if name := strings.TrimSpace(n.Customer.FirstName + " " + n.Customer.LastName); name != "" {
			o.CustomerName = name
		}
	}

	for _, e := range n.LineItems.Edges {
		li := domain.OrderLineItem{
			ProductID: NotAvailable,
			Title:     NotAvailable,
			Quantity:  e.Node.Quantity,
		}
		if p := e.Node.Product; p != nil {
			li.ProductID = p.ID
			li.Title = p.Title
		}
		o.LineItems = append(o.LineItems, li)
	}
	return o
}
