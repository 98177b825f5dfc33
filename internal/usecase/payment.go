package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/payment"
	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/pkg/clock"
	"studiobook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotPayable  = errs.New("booking is not in a payable state")
	ErrBookingHasNoAmount = errs.New("booking has no amount to charge")
	ErrNoPaymentAccount   = errs.New("studio has no payment account for this provider")
)

type CreatePaymentInput struct {
	BookingID  uuid.UUID
	UserID     uuid.UUID
	PayerEmail string
	// Provider empty selects the configured default.
	Provider string
}

type PaymentInitResult struct {
	PaymentID         uuid.UUID
	Provider          string
	PreferenceID      string
	ProviderPaymentID string
	RedirectURL       string
	ClientSecret      string
	Status            string
	AlreadyPaid       bool
}

type PaymentUsecase interface {
	CreateForBooking(ctx context.Context, input CreatePaymentInput) (*PaymentInitResult, error)
}

type paymentInteractor struct {
	runner   db.TxRunner
	pool     db.DBTX
	bookings BookingStore
	payments PaymentStore
	events   PaymentEventStore
	rooms    RoomReader
	gateways GatewaySelector
	clock    clock.Clock
}

func NewPaymentUsecase(
	runner db.TxRunner,
	pool db.DBTX,
	bookings BookingStore,
	payments PaymentStore,
	events PaymentEventStore,
	rooms RoomReader,
	gateways GatewaySelector,
	clk clock.Clock,
) PaymentUsecase {
	return &paymentInteractor{
		runner:   runner,
		pool:     pool,
		bookings: bookings,
		payments: payments,
		events:   events,
		rooms:    rooms,
		gateways: gateways,
		clock:    clk,
	}
}

// CreateForBooking creates (or refreshes) the payable intent for a booking.
// The provider call happens before the transaction opens so no row lock is
// held across the network. Retried requests land on the same active payment
// row through the partial-unique upsert.
func (u *paymentInteractor) CreateForBooking(ctx context.Context, input CreatePaymentInput) (*PaymentInitResult, error) {
	b, err := u.bookings.FindByID(ctx, u.pool, input.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFoundOrNotOwner)
		}
		return nil, err
	}
	if b.UserID() != input.UserID {
		return nil, ErrBookingNotFoundOrNotOwner
	}

	if b.IsPaid() {
		return &PaymentInitResult{
			Status:      payment.StatusApproved.String(),
			AlreadyPaid: true,
		}, nil
	}
	if b.Status() != booking.StatusConfirmed {
		return nil, errs.Wrapf(ErrBookingNotPayable, "status %s", b.Status())
	}
	if b.TotalAmount() == nil || *b.TotalAmount() <= 0 {
		return nil, ErrBookingHasNoAmount
	}
	amount := *b.TotalAmount()

	room, err := u.rooms.FindByID(ctx, b.RoomID())
	if err != nil {
		return nil, err
	}

	gw, err := u.gateways.Select(input.Provider)
	if err != nil {
		return nil, err
	}

	req := paygate.InitiateRequest{
		BookingID:   b.ID(),
		UserID:      input.UserID,
		PayerEmail:  input.PayerEmail,
		Amount:      amount,
		Currency:    "ARS",
		Description: fmt.Sprintf("Booking %s at %s", b.ConfirmationCode(), room.Name),
	}

	// MercadoPago collects into the studio's own account; Stripe uses the
	// process-wide key and needs no per-studio credentials.
	var collectorAccountID *uuid.UUID
	if gw.Provider() == payment.ProviderMercadoPago {
		account, err := u.rooms.FindAccountByStudio(ctx, room.StudioID, gw.Provider().String())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, ErrNoPaymentAccount)
			}
			return nil, err
		}
		req.AccountID = account.ID
		req.AccessToken = account.AccessToken
		req.CollectorID = account.CollectorID
		collectorAccountID = &account.ID
	}

	initiated, err := gw.Initiate(ctx, req)
	if err != nil {
		return nil, err
	}

	p := payment.New(
		b.ID(), amount, req.Currency,
		initiated.Provider, initiated.PreferenceID,
		input.UserID, input.PayerEmail,
		collectorAccountID,
	)

	var paymentID uuid.UUID
	err = u.runner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		paymentID, err = u.payments.UpsertActive(ctx, tx, p)
		if err != nil {
			return err
		}
		if initiated.ProviderPaymentID != "" {
			if err := u.payments.LinkProviderPayment(ctx, tx, paymentID, initiated.ProviderPaymentID); err != nil {
				return err
			}
		}
		if initiated.Status == payment.StatusApproved {
			now := u.clock.Now()
			if err := u.payments.UpdateStatus(ctx, tx, paymentID, payment.StatusApproved, &now); err != nil {
				return err
			}
			if err := u.bookings.MarkPaid(ctx, tx, b.ID()); err != nil {
				return err
			}
		}
		payload, _ := json.Marshal(map[string]any{
			"booking_id":    b.ID().String(),
			"provider":      initiated.Provider.String(),
			"preference_id": initiated.PreferenceID,
			"amount":        amount,
			"status":        initiated.Status.String(),
		})
		return u.events.Append(ctx, tx, &paymentID, initiated.Provider.String(), "payment_initiated", payload)
	})
	if err != nil {
		return nil, err
	}

	return &PaymentInitResult{
		PaymentID:         paymentID,
		Provider:          initiated.Provider.String(),
		PreferenceID:      initiated.PreferenceID,
		ProviderPaymentID: initiated.ProviderPaymentID,
		RedirectURL:       initiated.RedirectURL,
		ClientSecret:      initiated.ClientSecret,
		Status:            initiated.Status.String(),
	}, nil
}
