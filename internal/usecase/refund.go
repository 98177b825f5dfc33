package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/payment"
	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/infra/repository"
	"studiobook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound        = errs.New("payment not found")
	ErrPaymentNotRefundable   = errs.New("payment is not in a refundable state")
	ErrRefundExceedsRemaining = errs.New("refund amount exceeds the remaining balance")
)

type RefundResult struct {
	PaymentID      uuid.UUID
	BookingID      uuid.UUID
	RefundedAmount float64
	Status         string
}

type CancelBookingInput struct {
	BookingID uuid.UUID
	UserID    uuid.UUID
	ByStudio  bool
}

type CancelledBooking struct {
	BookingID uuid.UUID
	Status    string
	// Refund is set when the cancellation refunded an approved payment.
	Refund *RefundResult
}

type RefundUsecase interface {
	// Refund returns amount (or the full remaining balance when nil) to the
	// payer through the original provider.
	Refund(ctx context.Context, paymentID uuid.UUID, amount *float64) (*RefundResult, error)
	CancelBooking(ctx context.Context, input CancelBookingInput) (*CancelledBooking, error)
}

type refundInteractor struct {
	runner        db.TxRunner
	pool          db.DBTX
	bookings      BookingStore
	payments      PaymentStore
	events        PaymentEventStore
	notifications NotificationStore
	rooms         RoomReader
	gateways      GatewaySelector
}

func NewRefundUsecase(
	runner db.TxRunner,
	pool db.DBTX,
	bookings BookingStore,
	payments PaymentStore,
	events PaymentEventStore,
	notifications NotificationStore,
	rooms RoomReader,
	gateways GatewaySelector,
) RefundUsecase {
	return &refundInteractor{
		runner:        runner,
		pool:          pool,
		bookings:      bookings,
		payments:      payments,
		events:        events,
		notifications: notifications,
		rooms:         rooms,
		gateways:      gateways,
	}
}

// Refund calls the provider before opening the transaction, the same rule as
// payment creation: no row lock is held across the network. The cumulative
// refunded amount is settled under a row lock afterwards.
func (u *refundInteractor) Refund(ctx context.Context, paymentID uuid.UUID, amount *float64) (*RefundResult, error) {
	p, err := u.payments.FindByID(ctx, u.pool, paymentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPaymentNotFound)
		}
		return nil, err
	}

	if p.Status() != payment.StatusApproved && !p.Status().IsRefunded() {
		return nil, errs.Wrapf(ErrPaymentNotRefundable, "status %s", p.Status())
	}
	if p.ProviderPaymentID() == nil {
		return nil, payment.ErrProviderPaymentGone
	}

	remaining := p.RemainingRefundable()
	if remaining <= payment.RefundEpsilon {
		return nil, payment.ErrNothingToRefund
	}
	refundAmount := remaining
	if amount != nil {
		if *amount <= 0 {
			return nil, payment.ErrNothingToRefund
		}
		if *amount > remaining+payment.RefundEpsilon {
			return nil, ErrRefundExceedsRemaining
		}
		refundAmount = *amount
	}

	gw, err := u.gateways.Select(p.Provider().String())
	if err != nil {
		return nil, err
	}

	req := paygate.RefundRequest{ProviderPaymentID: *p.ProviderPaymentID()}
	if amount != nil {
		req.Amount = &refundAmount
	}
	if p.CollectorAccountID() != nil {
		account, err := u.rooms.FindAccountByID(ctx, *p.CollectorAccountID())
		if err != nil {
			return nil, err
		}
		req.AccessToken = account.AccessToken
	}

	outcome, err := gw.Refund(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &RefundResult{PaymentID: p.ID(), BookingID: p.BookingID()}
	err = u.runner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		locked, err := u.payments.FindForUpdate(ctx, tx, p.ID())
		if err != nil {
			return err
		}
		if err := locked.ApplyRefund(refundAmount); err != nil {
			return err
		}
		if err := u.payments.ApplyRefund(ctx, tx, locked); err != nil {
			return err
		}
		result.RefundedAmount = locked.RefundedAmount()
		result.Status = locked.Status().String()

		payload, _ := json.Marshal(map[string]any{
			"payment_id":         p.ID().String(),
			"provider_refund_id": outcome.ProviderRefundID,
			"amount":             refundAmount,
			"status":             outcome.Status,
		})
		pid := p.ID()
		return u.events.Append(ctx, tx, &pid, p.Provider().String(), "refund", payload)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelBooking cancels the booking and, when it was already paid, refunds
// the full remaining balance first so the money is never stranded on a
// cancelled booking. Refund failure aborts the cancellation.
func (u *refundInteractor) CancelBooking(ctx context.Context, input CancelBookingInput) (*CancelledBooking, error) {
	b, err := u.bookings.FindByID(ctx, u.pool, input.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFoundOrNotOwner)
		}
		return nil, err
	}
	if !input.ByStudio && b.UserID() != input.UserID {
		return nil, ErrBookingNotFoundOrNotOwner
	}
	if b.IsCancelled() {
		return nil, ErrBookingAlreadyCancelled
	}

	// Cancellation is always anchored to the booking's payment trail; a
	// booking that never reached payment is cancelled through reschedule
	// flows upstream and reports not-found here.
	p, err := u.payments.FindLatestByBooking(ctx, u.pool, input.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrPaymentNotFound)
		}
		return nil, err
	}

	var refund *RefundResult
	if b.IsPaid() && p.Status() == payment.StatusApproved {
		refund, err = u.Refund(ctx, p.ID(), nil)
		if err != nil {
			return nil, err
		}
	}

	var cancelled *booking.Booking
	err = u.runner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cancelled, err = u.bookings.FindForUpdate(ctx, tx, input.BookingID, b.UserID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFoundOrNotOwner)
			}
			return err
		}
		if err := cancelled.Cancel(input.ByStudio); err != nil {
			return errs.Mark(err, ErrBookingAlreadyCancelled)
		}
		return u.bookings.UpdateStatus(ctx, tx, cancelled.ID(), cancelled.Status())
	})
	if err != nil {
		return nil, err
	}

	u.notifyCancellation(ctx, cancelled, input.ByStudio)

	return &CancelledBooking{
		BookingID: cancelled.ID(),
		Status:    cancelled.Status().String(),
		Refund:    refund,
	}, nil
}

func (u *refundInteractor) notifyCancellation(ctx context.Context, b *booking.Booking, byStudio bool) {
	title := "Booking cancelled"
	body := "Your booking was cancelled"
	if byStudio {
		body = "The studio cancelled your booking"
	}
	err := u.notifications.NotifyUser(ctx, u.pool, b.UserID(), repository.NotificationPayload{
		Type:  "booking_cancelled",
		Title: title,
		Body:  body,
		Data:  map[string]any{"booking_id": b.ID().String()},
	})
	if err != nil {
		slog.Warn("failed to enqueue cancellation notification",
			"booking_id", b.ID().String(), "error", err.Error())
	}
}
