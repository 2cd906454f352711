package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/shopify-price-alerts/internal/config"
)

// Backend is a Store that can report readiness and release resources.
type Backend interface {
	Store
	Pinger
	Close()
}

// Open constructs the backend selected by cfg.Backend. PostgreSQL
// migrations are applied on open.
func Open(ctx context.Context, cfg *config.HistoryConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Path, WithFileLogger(log)), nil
	case config.BackendMemory:
		return NewMemoryStore(nil), nil
	case config.BackendRedis:
		return NewRedisStoreFromAddr(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key)
	case config.BackendPostgres:
		s, err := NewPostgresStore(ctx, cfg.Postgres.URL, cfg.Postgres.PoolSize)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrating price history schema: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
