//go:build unit

package usecase_test

import (
	"context"
	"testing"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/payment"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/usecase"
	"studiobook/tests/common/builder"
	paygatemock "studiobook/tests/mock/paygate"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type refundFixture struct {
	runner        *fakeRunner
	bookings      *fakeBookingStore
	payments      *fakePaymentStore
	events        *fakeEventStore
	notifications *fakeNotificationStore
	rooms         *fakeRoomReader
	gateway       *paygatemock.MockGateway
	uc            usecase.RefundUsecase
}

func newRefundFixture(t *testing.T) *refundFixture {
	ctrl := gomock.NewController(t)
	f := &refundFixture{
		runner:        &fakeRunner{},
		bookings:      newFakeBookingStore(),
		payments:      newFakePaymentStore(),
		events:        &fakeEventStore{},
		notifications: &fakeNotificationStore{},
		rooms:         newFakeRoomReader(),
		gateway:       paygatemock.NewMockGateway(ctrl),
	}
	f.uc = usecase.NewRefundUsecase(
		f.runner, nil, f.bookings, f.payments, f.events,
		f.notifications, f.rooms, &fakeGatewaySelector{gateway: f.gateway},
	)
	return f
}

func approvedPayment() *builder.PaymentBuilder {
	return builder.NewPaymentBuilder().With(func(b *builder.PaymentBuilder) {
		b.ProviderPaymentID = "987654"
		b.Status = payment.StatusApproved
	})
}

func refundOutcome() *paygate.RefundOutcome {
	return &paygate.RefundOutcome{ProviderRefundID: "r-1", Status: "approved"}
}

func TestRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("full refund of the remaining balance", func(t *testing.T) {
		f := newRefundFixture(t)
		p := approvedPayment().BuildDomain()
		f.payments.add(p)

		f.gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req paygate.RefundRequest) (*paygate.RefundOutcome, error) {
				assert.Equal(t, "987654", req.ProviderPaymentID)
				assert.Nil(t, req.Amount, "full refunds omit the amount")
				return refundOutcome(), nil
			})

		result, err := f.uc.Refund(ctx, p.ID(), nil)
		require.NoError(t, err)

		assert.InDelta(t, 100, result.RefundedAmount, 1e-9)
		assert.Equal(t, payment.StatusRefunded.String(), result.Status)
		assert.Equal(t, []uuid.UUID{p.ID()}, f.payments.refundsApplied)
		assert.Equal(t, []string{"refund"}, f.events.types())
	})

	t.Run("partial then completing refund", func(t *testing.T) {
		f := newRefundFixture(t)
		p := approvedPayment().BuildDomain()
		f.payments.add(p)

		f.gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).Return(refundOutcome(), nil).Times(2)

		partial := 30.0
		result, err := f.uc.Refund(ctx, p.ID(), &partial)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPartiallyRefunded.String(), result.Status)
		assert.InDelta(t, 30, result.RefundedAmount, 1e-9)

		rest := 70.0
		result, err = f.uc.Refund(ctx, p.ID(), &rest)
		require.NoError(t, err)
		assert.Equal(t, payment.StatusRefunded.String(), result.Status)
		assert.InDelta(t, 100, result.RefundedAmount, 1e-9)
	})

	t.Run("amount above the remaining balance", func(t *testing.T) {
		f := newRefundFixture(t)
		p := approvedPayment().BuildDomain()
		f.payments.add(p)

		over := 150.0
		_, err := f.uc.Refund(ctx, p.ID(), &over)
		assert.ErrorIs(t, err, usecase.ErrRefundExceedsRemaining)
	})

	t.Run("payment not yet settled", func(t *testing.T) {
		f := newRefundFixture(t)
		p := builder.NewPaymentBuilder().BuildDomain()
		f.payments.add(p)

		_, err := f.uc.Refund(ctx, p.ID(), nil)
		assert.ErrorIs(t, err, usecase.ErrPaymentNotRefundable)
	})

	t.Run("provider payment id not linked yet", func(t *testing.T) {
		f := newRefundFixture(t)
		p := builder.NewPaymentBuilder().With(func(b *builder.PaymentBuilder) {
			b.Status = payment.StatusApproved
		}).BuildDomain()
		f.payments.add(p)

		_, err := f.uc.Refund(ctx, p.ID(), nil)
		assert.ErrorIs(t, err, payment.ErrProviderPaymentGone)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newRefundFixture(t)
		_, err := f.uc.Refund(ctx, uuid.New(), nil)
		assert.ErrorIs(t, err, usecase.ErrPaymentNotFound)
	})

	t.Run("nothing left to refund", func(t *testing.T) {
		f := newRefundFixture(t)
		p := approvedPayment().With(func(b *builder.PaymentBuilder) {
			b.RefundedAmount = 100
		}).BuildDomain()
		f.payments.add(p)

		_, err := f.uc.Refund(ctx, p.ID(), nil)
		assert.ErrorIs(t, err, payment.ErrNothingToRefund)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, f *refundFixture, paid bool) (*builder.BookingBuilder, *booking.Booking) {
		t.Helper()
		bb := builder.NewBookingBuilder()
		b, err := bb.BuildDomain()
		require.NoError(t, err)
		if paid {
			b.MarkPaid()
		}
		f.bookings.bookings[b.ID()] = b
		return bb, b
	}

	t.Run("paid booking refunds in full before cancelling", func(t *testing.T) {
		f := newRefundFixture(t)
		bb, b := seed(t, f, true)
		p := approvedPayment().With(func(pb *builder.PaymentBuilder) {
			pb.BookingID = b.ID()
		}).BuildDomain()
		f.payments.add(p)

		f.gateway.EXPECT().Refund(gomock.Any(), gomock.Any()).Return(refundOutcome(), nil)

		cancelled, err := f.uc.CancelBooking(ctx, usecase.CancelBookingInput{
			BookingID: b.ID(),
			UserID:    bb.UserID,
		})
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCancelledByUser.String(), cancelled.Status)
		require.NotNil(t, cancelled.Refund)
		assert.InDelta(t, 100, cancelled.Refund.RefundedAmount, 1e-9)
		assert.Equal(t, booking.StatusCancelledByUser, f.bookings.statuses[b.ID()])
		assert.Equal(t, []uuid.UUID{bb.UserID}, f.notifications.notified)
	})

	t.Run("unpaid booking cancels without refunding", func(t *testing.T) {
		f := newRefundFixture(t)
		bb, b := seed(t, f, false)
		p := builder.NewPaymentBuilder().With(func(pb *builder.PaymentBuilder) {
			pb.BookingID = b.ID()
		}).BuildDomain()
		f.payments.add(p)

		cancelled, err := f.uc.CancelBooking(ctx, usecase.CancelBookingInput{
			BookingID: b.ID(),
			UserID:    bb.UserID,
		})
		require.NoError(t, err)

		assert.Nil(t, cancelled.Refund)
		assert.Equal(t, booking.StatusCancelledByUser.String(), cancelled.Status)
	})

	t.Run("booking without any payment reads as payment not found", func(t *testing.T) {
		f := newRefundFixture(t)
		bb, b := seed(t, f, false)

		_, err := f.uc.CancelBooking(ctx, usecase.CancelBookingInput{
			BookingID: b.ID(),
			UserID:    bb.UserID,
		})
		assert.ErrorIs(t, err, usecase.ErrPaymentNotFound)
	})

	t.Run("studio cancellation overrides ownership", func(t *testing.T) {
		f := newRefundFixture(t)
		_, b := seed(t, f, false)
		p := builder.NewPaymentBuilder().With(func(pb *builder.PaymentBuilder) {
			pb.BookingID = b.ID()
		}).BuildDomain()
		f.payments.add(p)

		cancelled, err := f.uc.CancelBooking(ctx, usecase.CancelBookingInput{
			BookingID: b.ID(),
			UserID:    uuid.New(),
			ByStudio:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelledByStudio.String(), cancelled.Status)
	})

	t.Run("someone else's booking reads as not found", func(t *testing.T) {
		f := newRefundFixture(t)
		_, b := seed(t, f, false)

		_, err := f.uc.CancelBooking(ctx, usecase.CancelBookingInput{
			BookingID: b.ID(),
			UserID:    uuid.New(),
		})
		assert.ErrorIs(t, err, usecase.ErrBookingNotFoundOrNotOwner)
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newRefundFixture(t)
		bb, b := seed(t, f, false)
		require.NoError(t, b.Cancel(false))

		_, err := f.uc.CancelBooking(ctx, usecase.CancelBookingInput{
			BookingID: b.ID(),
			UserID:    bb.UserID,
		})
		assert.ErrorIs(t, err, usecase.ErrBookingAlreadyCancelled)
	})
}
