package readstore

import (
	"context"

	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/pkg/pgconv"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

func (r *PaymentReadStore) FindLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentView, error) {
	const query = `
		SELECT id, booking_id, amount, currency, provider, preference_id,
		       provider_payment_id, status, payer_email, refunded_amount,
		       paid_at, created_at, updated_at
		FROM payments
		WHERE booking_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var (
		view              queries.PaymentView
		providerPaymentID pgtype.Text
		payerEmail        pgtype.Text
		paidAt            pgtype.Timestamptz
		createdAt         pgtype.Timestamptz
		updatedAt         pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, bookingID).Scan(
		&view.ID, &view.BookingID, &view.Amount, &view.Currency,
		&view.Provider, &view.PreferenceID, &providerPaymentID,
		&view.Status, &payerEmail, &view.RefundedAmount,
		&paidAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found for booking", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment view", err)
	}

	view.ProviderPaymentID = pgconv.StringPtrFromPgtype(providerPaymentID)
	view.PayerEmail = pgconv.StringPtrFromPgtype(payerEmail)
	view.PaidAt = pgconv.TimePtrFromPgtype(paidAt)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
