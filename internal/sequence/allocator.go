// Package sequence hands out process-wide-unique, monotonically increasing IDs
// backed by a Postgres counter row. The upsert-increment is a single statement, so
// two concurrent callers never observe the same value. There is no rollback: an ID
// issued for a request that later fails to persist is simply burned.
package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterRequestID is the counter used for relief request IDs.
const CounterRequestID = "request_id"

// Allocator issues IDs from named counters.
type Allocator struct {
	pool *pgxpool.Pool
	base int64
}

// NewAllocator creates an allocator. base is the starting value for counters that
// do not exist yet; with base 1000000 the first issued ID is 1000001.
func NewAllocator(pool *pgxpool.Pool, base int64) *Allocator {
	return &Allocator{pool: pool, base: base}
}

// NextID atomically increments the named counter and returns the new value,
// creating the counter at the configured base when absent.
func (a *Allocator) NextID(ctx context.Context, name string) (int64, error) {
	const q = `INSERT INTO counters (name, seq) VALUES ($1, $2 + 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq`
	var seq int64
	if err := a.pool.QueryRow(ctx, q, name, a.base).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return seq, nil
}
