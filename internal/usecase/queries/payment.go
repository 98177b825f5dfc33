package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PaymentView struct {
	ID                uuid.UUID  `json:"id"`
	BookingID         uuid.UUID  `json:"booking_id"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
	Provider          string     `json:"provider"`
	PreferenceID      string     `json:"preference_id"`
	ProviderPaymentID *string    `json:"provider_payment_id,omitempty"`
	Status            string     `json:"status"`
	PayerEmail        *string    `json:"payer_email,omitempty"`
	RefundedAmount    float64    `json:"refunded_amount"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type PaymentQueries interface {
	GetLatestForBooking(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
}

type PaymentReadStore interface {
	FindLatestByBooking(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	store PaymentReadStore
}

func NewPaymentQueries(store PaymentReadStore) PaymentQueries {
	return &paymentQueriesImpl{store: store}
}

func (q *paymentQueriesImpl) GetLatestForBooking(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error) {
	return q.store.FindLatestByBooking(ctx, bookingID)
}
