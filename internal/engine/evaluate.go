package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/shopify-price-alerts/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// Evaluate computes the percentage decrease from oldPrice to newPrice and
// whether it strictly exceeds threshold. A zero oldPrice yields a zero
// decrease. Increases produce a negative decrease and never alert.
func Evaluate(oldPrice, newPrice, threshold decimal.Decimal) (decimal.Decimal, bool) {
	if oldPrice.IsZero() {
		return decimal.Zero, false
	}
	pct := oldPrice.Sub(newPrice).Div(oldPrice).Mul(hundred)
	return pct, pct.GreaterThan(threshold)
}

type webhookPayload struct {
	ID json.RawMessage `json:"id"`
}

// ParseProductID extracts the product ID from a product update webhook
// body. The id may be a JSON number, a string of digits or a product GID.
func ParseProductID(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	raw := bytes.TrimSpace(p.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}

	var id string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &id); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		id = strings.TrimPrefix(strings.TrimSpace(id), domain.ProductGIDPrefix)
	default:
		id = string(raw)
	}

	if !isDigits(id) {
		return "", fmt.Errorf("%w: id %q is not a numeric product ID", ErrInvalidPayload, id)
	}
	return id, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
