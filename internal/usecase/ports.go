package usecase

import (
	"context"
	"time"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/payment"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/infra/repository"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"

	"studiobook/internal/infra/db"
)

// Write-side persistence ports. Implementations live in infra/repository;
// every method takes the DBTX it should run on so a usecase can compose
// several calls into one transaction.

type BookingStore interface {
	LockRoomSchedule(ctx context.Context, tx db.DBTX, roomID uuid.UUID) error
	HasOverlap(ctx context.Context, tx db.DBTX, roomID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error)
	Insert(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	FindForUpdate(ctx context.Context, tx db.DBTX, id, ownerID uuid.UUID) (*booking.Booking, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateSchedule(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	MarkPaid(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status) error
}

type PaymentStore interface {
	UpsertActive(ctx context.Context, tx db.DBTX, p *payment.Payment) (uuid.UUID, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*payment.Payment, error)
	FindActiveByBooking(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error)
	FindLatestByBooking(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*payment.Payment, error)
	FindByPreferenceID(ctx context.Context, dbtx db.DBTX, preferenceID string) (*payment.Payment, error)
	FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*payment.Payment, error)
	LinkProviderPayment(ctx context.Context, dbtx db.DBTX, id uuid.UUID, providerPaymentID string) error
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status payment.Status, paidAt *time.Time) error
	ApplyRefund(ctx context.Context, tx db.DBTX, p *payment.Payment) error
}

type PaymentEventStore interface {
	Append(ctx context.Context, dbtx db.DBTX, paymentID *uuid.UUID, provider, eventType string, payload []byte) error
}

type ConversationStore interface {
	FindOrCreateForBooking(ctx context.Context, tx db.DBTX, bookingID, roomID, bookingUserID, ownerUserID uuid.UUID) (uuid.UUID, error)
}

type NotificationStore interface {
	NotifyUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, p repository.NotificationPayload) error
}

// RoomReader resolves directory data: rooms with their schedule and pricing,
// and the studio payment accounts behind them.
type RoomReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*queries.RoomView, error)
	FindAccountByStudio(ctx context.Context, studioID uuid.UUID, provider string) (*queries.AccountView, error)
	FindAccountByID(ctx context.Context, id uuid.UUID) (*queries.AccountView, error)
}

// GatewaySelector picks the payment gateway for a provider name.
type GatewaySelector interface {
	Select(name string) (paygate.Gateway, error)
}

// MercadoPagoAPI is the subset of the provider client the webhook
// reconciler needs: fetching authoritative payment state and resolving
// merchant orders back to preferences.
type MercadoPagoAPI interface {
	GetPayment(ctx context.Context, accessToken, paymentID string) (*paygate.MPPaymentInfo, error)
	GetMerchantOrder(ctx context.Context, accessToken string, orderID int64) (*paygate.MPMerchantOrder, error)
}
