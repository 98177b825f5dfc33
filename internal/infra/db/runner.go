package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner lets usecases open transactions without depending on pgxpool
// directly.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type PoolRunner struct {
	pool *pgxpool.Pool
}

func NewPoolRunner(pool *pgxpool.Pool) *PoolRunner {
	return &PoolRunner{pool: pool}
}

func (r *PoolRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return WithinTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, tx)
	})
}
