package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studiobook/internal/pkg/errs"
	"studiobook/internal/pkg/retry"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin  = errs.New("failed to begin transaction")
	errTransactionCommit = errs.New("failed to commit transaction")
)

var txRetryPolicy = retry.Policy{
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	MaxDelay:    time.Second,
}

// WithinTx runs fn in a read-committed transaction, retrying on
// serialization failures and deadlocks. Business errors returned by fn roll
// the transaction back and are surfaced unchanged. fn must not hold the
// transaction across calls to external providers.
func WithinTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	attempt := 0
	return retry.Do(ctx, txRetryPolicy, func() error {
		attempt++
		err := runTxOnce(ctx, pool, fn)
		if err != nil && isRetryableTxError(err) {
			slog.Warn("retrying transaction after transient conflict",
				"attempt", attempt, "error", err.Error())
		}
		return err
	}, isRetryableTxError)
}

func runTxOnce(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	if err := fn(ctx, tx); err != nil {
		rollback(ctx, tx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		rollback(ctx, tx)
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", err.Error())
	}
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}
