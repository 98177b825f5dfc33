package repository

import (
	"context"

	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// PaymentEventRepository appends raw provider events to the audit trail.
// Rows are never updated or deleted; unmatched events are stored with a nil
// payment id so redelivered webhooks can still be reconciled later.
type PaymentEventRepository struct{}

func NewPaymentEventRepository() *PaymentEventRepository {
	return &PaymentEventRepository{}
}

func (r *PaymentEventRepository) Append(ctx context.Context, dbtx db.DBTX, paymentID *uuid.UUID, provider, eventType string, payload []byte) error {
	const query = `
		INSERT INTO payment_events (id, payment_id, provider, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`

	_, err := dbtx.Exec(ctx, query,
		uuid.New(), pgconv.UUIDPtrToPgtype(paymentID), provider, eventType, payload,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append payment event", err)
	}
	return nil
}

func (r *PaymentEventRepository) CountByPayment(ctx context.Context, dbtx db.DBTX, paymentID uuid.UUID) (int64, error) {
	var n int64
	err := dbtx.QueryRow(ctx, `SELECT count(*) FROM payment_events WHERE payment_id = $1`, paymentID).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count payment events", err)
	}
	return n, nil
}
