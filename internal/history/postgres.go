package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const defaultPoolSize = 4

const (
	queryLoadHistory = `SELECT product_id, price::text FROM price_history`

	queryUpsertPrice = `
		INSERT INTO price_history (product_id, price, updated_at)
		VALUES ($1, $2::numeric, now())
		ON CONFLICT (product_id) DO UPDATE
		SET price = EXCLUDED.price, updated_at = EXCLUDED.updated_at
		WHERE price_history.price IS DISTINCT FROM EXCLUDED.price`
)

// PostgresStore keeps the price history in a price_history table.
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, poolSize int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	cfg.MaxConns = int32(poolSize) //nolint:gosec // pool size comes from validated config

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Load reads every row of the history table.
func (s *PostgresStore) Load(ctx context.Context) (Record, error) {
	rows, err := s.pool.Query(ctx, queryLoadHistory)
	if err != nil {
		return nil, fmt.Errorf("querying price history: %w", err)
	}
	defer rows.Close()

	r := Record{}
	for rows.Next() {
		var id, price string
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("scanning price history row: %w", err)
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parsing price for product %s: %w", id, err)
		}
		r[id] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating price history: %w", err)
	}
	return r, nil
}

// Save upserts every entry in one transaction. Rows whose price did not
// change are left untouched.
func (s *PostgresStore) Save(ctx context.Context, r Record) error {
	if len(r) == 0 {
		return nil
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, id := range r.ProductIDs() {
			batch.Queue(queryUpsertPrice, id, r[id].String())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upserting price history: %w", err)
		}
		return nil
	})
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
