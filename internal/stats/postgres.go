package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS usage_stats (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    count      BIGINT NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
INSERT INTO usage_stats (id, count) VALUES (1, 0) ON CONFLICT (id) DO NOTHING;`

// PostgresMirror keeps the counter in a single-row usage_stats table.
type PostgresMirror struct {
	pool *pgxpool.Pool
}

var _ Mirror = (*PostgresMirror)(nil)

// NewPostgresMirror connects to dsn and creates the counter row if needed.
func NewPostgresMirror(ctx context.Context, dsn string) (*PostgresMirror, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating usage_stats: %w", err)
	}
	return &PostgresMirror{pool: pool}, nil
}

func (m *PostgresMirror) Get(ctx context.Context) (int64, error) {
	var n int64
	if err := m.pool.QueryRow(ctx, `SELECT count FROM usage_stats WHERE id = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("reading usage_stats: %w", err)
	}
	return n, nil
}

func (m *PostgresMirror) Set(ctx context.Context, count int64) error {
	_, err := m.pool.Exec(ctx, `UPDATE usage_stats SET count = $1, updated_at = now() WHERE id = 1`, count)
	if err != nil {
		return fmt.Errorf("writing usage_stats: %w", err)
	}
	return nil
}

func (m *PostgresMirror) Add(ctx context.Context, delta int64) (int64, error) {
	var n int64
	err := m.pool.QueryRow(ctx,
		`UPDATE usage_stats SET count = count + $1, updated_at = now() WHERE id = 1 RETURNING count`, delta).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("incrementing usage_stats: %w", err)
	}
	return n, nil
}

func (m *PostgresMirror) Close() error {
	m.pool.Close()
	return nil
}
