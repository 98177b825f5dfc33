//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/payment"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/pkg/clock"
	"studiobook/internal/usecase"
	"studiobook/internal/usecase/queries"
	"studiobook/tests/common/builder"
	paygatemock "studiobook/tests/mock/paygate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type paymentFixture struct {
	runner   *fakeRunner
	bookings *fakeBookingStore
	payments *fakePaymentStore
	events   *fakeEventStore
	rooms    *fakeRoomReader
	gateway  *paygatemock.MockGateway
	clock    *clock.MockClock
	uc       usecase.PaymentUsecase
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	ctrl := gomock.NewController(t)
	f := &paymentFixture{
		runner:   &fakeRunner{},
		bookings: newFakeBookingStore(),
		payments: newFakePaymentStore(),
		events:   &fakeEventStore{},
		rooms:    newFakeRoomReader(),
		gateway:  paygatemock.NewMockGateway(ctrl),
		clock:    clock.NewMockClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)),
	}
	f.uc = usecase.NewPaymentUsecase(
		f.runner, nil, f.bookings, f.payments, f.events, f.rooms,
		&fakeGatewaySelector{gateway: f.gateway}, f.clock,
	)
	return f
}

func (f *paymentFixture) seedBooking(t *testing.T, bb *builder.BookingBuilder) uuid.UUID {
	t.Helper()
	f.rooms.rooms[bb.RoomID] = bb.BuildRoomView()
	b, err := bb.BuildDomain()
	require.NoError(t, err)
	f.bookings.bookings[b.ID()] = b
	return b.ID()
}

func (f *paymentFixture) seedAccount(bb *builder.BookingBuilder) *queries.AccountView {
	account := &queries.AccountView{
		ID:          uuid.New(),
		StudioID:    bb.StudioID,
		Provider:    payment.ProviderMercadoPago.String(),
		AccessToken: "APP_USR-token",
		CollectorID: "123456",
	}
	f.rooms.accounts[account.ID] = account
	return account
}

func TestCreatePaymentForBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("mercadopago preference flow", func(t *testing.T) {
		f := newPaymentFixture(t)
		bb := builder.NewBookingBuilder()
		bookingID := f.seedBooking(t, bb)
		account := f.seedAccount(bb)

		f.gateway.EXPECT().Provider().Return(payment.ProviderMercadoPago).AnyTimes()
		f.gateway.EXPECT().Initiate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req paygate.InitiateRequest) (*paygate.InitiatedPayment, error) {
				assert.Equal(t, bookingID, req.BookingID)
				assert.Equal(t, account.AccessToken, req.AccessToken)
				assert.InDelta(t, bb.HourlyPrice*2, req.Amount, 1e-9)
				return &paygate.InitiatedPayment{
					Provider:     payment.ProviderMercadoPago,
					PreferenceID: "pref-42",
					RedirectURL:  "https://sandbox.example/init",
					Status:       payment.StatusCreated,
				}, nil
			})

		result, err := f.uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID:  bookingID,
			UserID:     bb.UserID,
			PayerEmail: "payer@example.com",
		})
		require.NoError(t, err)

		assert.False(t, result.AlreadyPaid)
		assert.Equal(t, "pref-42", result.PreferenceID)
		assert.Equal(t, "https://sandbox.example/init", result.RedirectURL)
		assert.Equal(t, payment.StatusCreated.String(), result.Status)

		require.Len(t, f.payments.upserted, 1)
		assert.Equal(t, &account.ID, f.payments.upserted[0].CollectorAccountID())
		assert.Equal(t, []string{"payment_initiated"}, f.events.types())
		assert.Empty(t, f.bookings.paid)
	})

	t.Run("synchronous approval marks the booking paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		bb := builder.NewBookingBuilder()
		bookingID := f.seedBooking(t, bb)

		f.gateway.EXPECT().Provider().Return(payment.ProviderStripe).AnyTimes()
		f.gateway.EXPECT().Initiate(gomock.Any(), gomock.Any()).
			Return(&paygate.InitiatedPayment{
				Provider:          payment.ProviderStripe,
				ProviderPaymentID: "pi_123",
				ClientSecret:      "pi_123_secret",
				Status:            payment.StatusApproved,
			}, nil)

		result, err := f.uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID: bookingID,
			UserID:    bb.UserID,
			Provider:  "stripe",
		})
		require.NoError(t, err)

		assert.Equal(t, payment.StatusApproved.String(), result.Status)
		assert.Equal(t, "pi_123_secret", result.ClientSecret)
		assert.Equal(t, []uuid.UUID{bookingID}, f.bookings.paid)
		require.Len(t, f.payments.upserted, 1)
		assert.Equal(t, "pi_123", f.payments.linked[result.PaymentID])
	})

	t.Run("already paid short-circuits without a provider call", func(t *testing.T) {
		f := newPaymentFixture(t)
		bb := builder.NewBookingBuilder()
		bookingID := f.seedBooking(t, bb)
		f.bookings.bookings[bookingID].MarkPaid()

		result, err := f.uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID: bookingID,
			UserID:    bb.UserID,
		})
		require.NoError(t, err)

		assert.True(t, result.AlreadyPaid)
		assert.Equal(t, payment.StatusApproved.String(), result.Status)
		assert.Empty(t, f.payments.upserted)
	})

	t.Run("other user's booking reads as not found", func(t *testing.T) {
		f := newPaymentFixture(t)
		bb := builder.NewBookingBuilder()
		bookingID := f.seedBooking(t, bb)

		_, err := f.uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID: bookingID,
			UserID:    uuid.New(),
		})
		assert.ErrorIs(t, err, usecase.ErrBookingNotFoundOrNotOwner)
	})

	t.Run("cancelled booking is not payable", func(t *testing.T) {
		f := newPaymentFixture(t)
		bb := builder.NewBookingBuilder()
		bookingID := f.seedBooking(t, bb)
		require.NoError(t, f.bookings.bookings[bookingID].Cancel(false))

		_, err := f.uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID: bookingID,
			UserID:    bb.UserID,
		})
		assert.ErrorIs(t, err, usecase.ErrBookingNotPayable)
	})

	t.Run("booking without amount", func(t *testing.T) {
		f := newPaymentFixture(t)
		bb := builder.NewBookingBuilder()
		f.rooms.rooms[bb.RoomID] = bb.BuildRoomView()
		rng, err := booking.NewTimeRange(bb.StartsAt, bb.EndsAt)
		require.NoError(t, err)
		b := booking.NewBooking(bb.RoomID, bb.UserID, rng, nil, "", "")
		f.bookings.bookings[b.ID()] = b

		_, err = f.uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID: b.ID(),
			UserID:    bb.UserID,
		})
		assert.ErrorIs(t, err, usecase.ErrBookingHasNoAmount)
	})

	t.Run("mercadopago without a studio account", func(t *testing.T) {
		f := newPaymentFixture(t)
		bb := builder.NewBookingBuilder()
		bookingID := f.seedBooking(t, bb)

		f.gateway.EXPECT().Provider().Return(payment.ProviderMercadoPago).AnyTimes()

		_, err := f.uc.CreateForBooking(ctx, usecase.CreatePaymentInput{
			BookingID: bookingID,
			UserID:    bb.UserID,
		})
		assert.ErrorIs(t, err, usecase.ErrNoPaymentAccount)
	})
}
