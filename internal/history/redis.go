package history

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DefaultRedisKey is the hash that holds the price history.
const DefaultRedisKey = "price_history"

// RedisStore keeps the price history in a single Redis hash of
// productId to price.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

// NewRedisStoreFromAddr dials addr and verifies the connection.
func NewRedisStoreFromAddr(ctx context.Context, addr, password string, db int, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // ping error takes precedence
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return NewRedisStore(client, key), nil
}

// Load reads the whole hash. A missing key yields an empty record.
// Connection errors are returned, not masked as an empty history.
func (s *RedisStore) Load(ctx context.Context) (Record, error) {
	vals, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading price history hash: %w", err)
	}

	r := make(Record, len(vals))
	for id, v := range vals {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("parsing price for product %s: %w", id, err)
		}
		r[id] = price
	}
	return r, nil
}

// Save writes every entry inside a MULTI/EXEC transaction. Entries are
// never removed, so writing the full record is equivalent to replacing it.
func (s *RedisStore) Save(ctx context.Context, r Record) error {
	if len(r) == 0 {
		return nil
	}

	fields := make([]any, 0, len(r)*2)
	for _, id := range r.ProductIDs() {
		fields = append(fields, id, r[id].String())
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, fields...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing price history hash: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *RedisStore) Close() {
	_ = s.client.Close() //nolint:errcheck // shutdown path
}
