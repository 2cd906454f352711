// Package history persists the last observed price for each product.
// Business logic depends on the Store interface only; backends are
// swappable (file, memory, Redis, PostgreSQL).
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Record maps a product ID to its last observed price. A missing key
// means the product has never been observed.
type Record map[string]decimal.Decimal

// Clone returns a copy that can be mutated independently.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	maps.Copy(out, r)
	return out
}

// ProductIDs returns the product IDs in sorted order.
func (r Record) ProductIDs() []string {
	return slices.Sorted(maps.Keys(r))
}

// Store loads and saves the full price history. Updates follow a
// read-modify-write pattern: Load, mutate in memory, Save. Store
// implementations provide no isolation between concurrent writers.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, r Record) error
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Encode serializes a record as a flat JSON object of productId to number.
// Keys are sorted and the output is indented for human inspection.
func Encode(r Record) ([]byte, error) {
	raw := make(map[string]json.Number, len(r))
	for id, price := range r {
		raw[id] = json.Number(price.String())
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding price history: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses the JSON produced by Encode. Numbers are parsed exactly,
// without a round trip through float64.
func Decode(data []byte) (Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Record{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]json.Number
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding price history: %w", err)
	}

	r := make(Record, len(raw))
	for id, n := range raw {
		price, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil, fmt.Errorf("decoding price for product %s: %w", id, err)
		}
		r[id] = price
	}
	return r, nil
}
