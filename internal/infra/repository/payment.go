package repository

import (
	"context"
	"time"

	"studiobook/internal/domain/payment"
	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

const paymentColumns = `
	id, booking_id, amount, currency, provider, preference_id,
	provider_payment_id, status, payer_user_id, payer_email,
	refunded_amount, paid_at, collector_account_id, created_at, updated_at`

const activeStatuses = `('created', 'pending', 'in_process')`

// UpsertActive creates the payment row for a booking, or refreshes the
// existing non-terminal one. The partial unique index
// ux_payments_active_booking makes two concurrent creations collapse onto a
// single row, which is what keeps at most one active payment per booking.
func (r *PaymentRepository) UpsertActive(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error) {
	const query = `
		INSERT INTO payments (
			id, booking_id, amount, currency, provider, preference_id,
			status, payer_user_id, payer_email, refunded_amount,
			collector_account_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, now(), now())
		ON CONFLICT (booking_id) WHERE status IN ` + activeStatuses + `
		DO UPDATE SET
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			provider = EXCLUDED.provider,
			preference_id = EXCLUDED.preference_id,
			payer_email = EXCLUDED.payer_email,
			updated_at = now()
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		p.ID(), p.BookingID(), p.Amount(), p.Currency(),
		p.Provider().String(), p.PreferenceID(), p.Status().String(),
		p.PayerUserID(), p.PayerEmail(),
		pgconv.UUIDPtrToPgtype(p.CollectorAccountID()),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to upsert payment", err)
	}
	return id, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.queryOne(ctx, dbtx, query, id)
}

// FindActiveByBooking returns the single non-terminal payment row for a
// booking, if any.
func (r *PaymentRepository) FindActiveByBooking(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	query := `
		SELECT ` + paymentColumns + ` FROM payments
		WHERE booking_id = $1 AND status IN ` + activeStatuses + `
		ORDER BY created_at DESC LIMIT 1`
	return r.queryOne(ctx, dbtx, query, bookingID)
}

func (r *PaymentRepository) FindLatestByBooking(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error) {
	query := `
		SELECT ` + paymentColumns + ` FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC LIMIT 1`
	return r.queryOne(ctx, dbtx, query, bookingID)
}

func (r *PaymentRepository) FindByPreferenceID(ctx context.Context, dbtx db.DBTX, preferenceID string) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE preference_id = $1`
	return r.queryOne(ctx, dbtx, query, preferenceID)
}

func (r *PaymentRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	return r.queryOne(ctx, tx, query, id)
}

// LinkProviderPayment stores the provider's payment id the first time a
// webhook reveals it. The IS NULL guard makes re-linking a no-op.
func (r *PaymentRepository) LinkProviderPayment(ctx context.Context, dbtx db.DBTX, id uuid.UUID, providerPaymentID string) error {
	const query = `
		UPDATE payments SET provider_payment_id = $2, updated_at = now()
		WHERE id = $1 AND provider_payment_id IS NULL`

	if _, err := dbtx.Exec(ctx, query, id, providerPaymentID); err != nil {
		return infra.WrapRepoErr("failed to link provider payment", err)
	}
	return nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status payment.Status, paidAt *time.Time) error {
	const query = `
		UPDATE payments
		SET status = $2, paid_at = COALESCE(paid_at, $3), updated_at = now()
		WHERE id = $1`

	if _, err := dbtx.Exec(ctx, query, id, status.String(), pgconv.TimePtrToPgtype(paidAt)); err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	return nil
}

func (r *PaymentRepository) ApplyRefund(ctx context.Context, tx db.DBTX, p *payment.Payment) error {
	const query = `
		UPDATE payments
		SET refunded_amount = $2, status = $3, updated_at = now()
		WHERE id = $1`

	_, err := tx.Exec(ctx, query, p.ID(), p.RefundedAmount(), p.Status().String())
	if err != nil {
		return infra.WrapRepoErr("failed to apply refund", err)
	}
	return nil
}

func (r *PaymentRepository) queryOne(ctx context.Context, dbtx db.DBTX, query string, args ...any) (*payment.Payment, error) {
	p, err := scanPayment(dbtx.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to query payment", err)
	}
	return p, nil
}

func scanPayment(row rowScanner) (*payment.Payment, error) {
	var (
		id, bookingID      uuid.UUID
		amount             float64
		currency           string
		provider           string
		preferenceID       string
		providerPaymentID  pgtype.Text
		status             string
		payerUserID        uuid.UUID
		payerEmail         pgtype.Text
		refundedAmount     float64
		paidAt             pgtype.Timestamptz
		collectorAccountID pgtype.UUID
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &bookingID, &amount, &currency, &provider, &preferenceID,
		&providerPaymentID, &status, &payerUserID, &payerEmail,
		&refundedAmount, &paidAt, &collectorAccountID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return payment.Reconstruct(
		id, bookingID, amount, currency,
		payment.Provider(provider), preferenceID,
		pgconv.StringPtrFromPgtype(providerPaymentID),
		payment.Status(status),
		payerUserID, textOrEmpty(payerEmail),
		refundedAmount,
		pgconv.TimePtrFromPgtype(paidAt),
		pgconv.UUIDPtrFromPgtype(collectorAccountID),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}
