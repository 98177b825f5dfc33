package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"studiobook/internal/domain/payment"
	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/infra/repository"
	"studiobook/internal/pkg/clock"
	"studiobook/internal/pkg/retry"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
)

// WebhookInput carries the provider notification plus the query-string hints
// planted on the notification URL at preference creation time. Every field
// except Body may be missing; resolution degrades gracefully.
type WebhookInput struct {
	Topic         string
	ResourceID    string
	AccountIDHint *uuid.UUID
	BookingIDHint *uuid.UUID
	Body          []byte
}

type WebhookResult struct {
	Matched   bool
	Applied   bool
	PaymentID uuid.UUID
	BookingID uuid.UUID
	Status    string
}

type WebhookUsecase interface {
	Process(ctx context.Context, input WebhookInput) (*WebhookResult, error)
}

type webhookInteractor struct {
	runner        db.TxRunner
	pool          db.DBTX
	bookings      BookingStore
	payments      PaymentStore
	events        PaymentEventStore
	notifications NotificationStore
	rooms         RoomReader
	mp            MercadoPagoAPI
	clock         clock.Clock
}

func NewWebhookUsecase(
	runner db.TxRunner,
	pool db.DBTX,
	bookings BookingStore,
	payments PaymentStore,
	events PaymentEventStore,
	notifications NotificationStore,
	rooms RoomReader,
	mp MercadoPagoAPI,
	clk clock.Clock,
) WebhookUsecase {
	return &webhookInteractor{
		runner:        runner,
		pool:          pool,
		bookings:      bookings,
		payments:      payments,
		events:        events,
		notifications: notifications,
		rooms:         rooms,
		mp:            mp,
		clock:         clk,
	}
}

// providerFetchPolicy retries payment fetches that race the provider's own
// persistence: a notification can arrive before the payment is readable.
var providerFetchPolicy = retry.Policy{
	MaxAttempts: 4,
	BaseDelay:   500 * time.Millisecond,
	MaxDelay:    5 * time.Second,
}

// Process applies one provider notification. Malformed or unmatchable events
// are recorded in the audit trail and reported as unmatched, never as errors;
// the provider redelivers on non-2xx and a poison event must not loop
// forever. Only infrastructure failures (database, provider API after
// retries) surface as errors.
func (u *webhookInteractor) Process(ctx context.Context, input WebhookInput) (*WebhookResult, error) {
	body := parseWebhookBody(input.Body)

	topic := input.Topic
	if topic == "" {
		topic = body.topic()
	}

	account, err := u.resolveAccount(ctx, input)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.Contains(topic, "payment"):
		return u.processPayment(ctx, input, body, account)
	case strings.Contains(topic, "merchant_order"):
		return u.processMerchantOrder(ctx, input, account)
	default:
		// Unknown topics (chargebacks, test pings) are stored and ignored.
		if err := u.events.Append(ctx, u.pool, nil, payment.ProviderMercadoPago.String(), "webhook_ignored", input.Body); err != nil {
			return nil, err
		}
		return &WebhookResult{}, nil
	}
}

func (u *webhookInteractor) processPayment(ctx context.Context, input WebhookInput, body webhookBody, account *queries.AccountView) (*WebhookResult, error) {
	providerPaymentID := body.paymentID()
	if providerPaymentID == "" {
		providerPaymentID = input.ResourceID
	}
	if providerPaymentID == "" || account == nil {
		return u.recordUnmatched(ctx, input, "missing payment id or account")
	}

	var info *paygate.MPPaymentInfo
	err := retry.Do(ctx, providerFetchPolicy, func() error {
		var err error
		info, err = u.mp.GetPayment(ctx, account.AccessToken, providerPaymentID)
		return err
	}, func(err error) bool {
		return errors.Is(err, paygate.ErrMPPaymentNotFound)
	})
	if err != nil {
		if errors.Is(err, paygate.ErrMPPaymentNotFound) {
			return u.recordUnmatched(ctx, input, "payment not readable at provider")
		}
		return nil, err
	}

	p, err := u.resolvePayment(ctx, info, input.BookingIDHint, account.AccessToken)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return u.recordUnmatched(ctx, input, "no local payment matches event")
	}

	return u.applyPaymentState(ctx, input, p.ID(), providerPaymentID, info)
}

// processMerchantOrder only links the provider payment ids the order carries;
// status always comes from payment events.
func (u *webhookInteractor) processMerchantOrder(ctx context.Context, input WebhookInput, account *queries.AccountView) (*WebhookResult, error) {
	orderID, err := strconv.ParseInt(input.ResourceID, 10, 64)
	if err != nil || account == nil {
		return u.recordUnmatched(ctx, input, "unusable merchant order event")
	}

	order, err := u.mp.GetMerchantOrder(ctx, account.AccessToken, orderID)
	if err != nil {
		if errors.Is(err, paygate.ErrMPPaymentNotFound) {
			return u.recordUnmatched(ctx, input, "merchant order not readable at provider")
		}
		return nil, err
	}

	p, err := u.findByPreference(ctx, order.PreferenceID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return u.recordUnmatched(ctx, input, "no local payment for merchant order")
	}

	pid := p.ID()
	if err := u.events.Append(ctx, u.pool, &pid, payment.ProviderMercadoPago.String(), "merchant_order", input.Body); err != nil {
		return nil, err
	}
	return &WebhookResult{Matched: true, PaymentID: pid, BookingID: p.BookingID(), Status: p.Status().String()}, nil
}

// applyPaymentState runs the idempotent state transition under a row lock.
// Redelivered events re-enter here, find the status unchanged, and apply
// nothing.
func (u *webhookInteractor) applyPaymentState(ctx context.Context, input WebhookInput, paymentID uuid.UUID, providerPaymentID string, info *paygate.MPPaymentInfo) (*WebhookResult, error) {
	result := &WebhookResult{Matched: true, PaymentID: paymentID}

	err := u.runner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		p, err := u.payments.FindForUpdate(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		result.BookingID = p.BookingID()

		if p.LinkProviderPayment(providerPaymentID) {
			if err := u.payments.LinkProviderPayment(ctx, tx, p.ID(), providerPaymentID); err != nil {
				return err
			}
		}

		next := mapProviderStatus(info.Status)
		if p.ApplyStatus(next, u.clock.Now()) {
			result.Applied = true
			if err := u.payments.UpdateStatus(ctx, tx, p.ID(), next, p.PaidAt()); err != nil {
				return err
			}
			if next == payment.StatusApproved {
				if err := u.bookings.MarkPaid(ctx, tx, p.BookingID()); err != nil {
					return err
				}
				u.notifyPayer(ctx, tx, p)
			}
		}

		// Refund state reported by the provider is reconciled into the
		// cumulative local amount.
		if delta := info.TransactionAmountRefund - p.RefundedAmount(); next.IsRefunded() && delta > 0 {
			if err := p.ApplyRefund(delta); err == nil {
				if err := u.payments.ApplyRefund(ctx, tx, p); err != nil {
					return err
				}
			}
		}
		result.Status = p.Status().String()

		pid := p.ID()
		return u.events.Append(ctx, tx, &pid, payment.ProviderMercadoPago.String(), "webhook_payment", input.Body)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveAccount finds the studio credentials for this event: the account_id
// hint wins, then the booking_id hint via the booking's studio.
func (u *webhookInteractor) resolveAccount(ctx context.Context, input WebhookInput) (*queries.AccountView, error) {
	if input.AccountIDHint != nil {
		account, err := u.rooms.FindAccountByID(ctx, *input.AccountIDHint)
		if err == nil {
			return account, nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, err
		}
	}
	if input.BookingIDHint != nil {
		b, err := u.bookings.FindByID(ctx, u.pool, *input.BookingIDHint)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil
			}
			return nil, err
		}
		room, err := u.rooms.FindByID(ctx, b.RoomID())
		if err != nil {
			return nil, err
		}
		account, err := u.rooms.FindAccountByStudio(ctx, room.StudioID, payment.ProviderMercadoPago.String())
		if err == nil {
			return account, nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// resolvePayment walks the identification chain: the merchant order's
// preference first (the id we stored at creation time), then metadata, then
// the external reference, then the booking hint.
func (u *webhookInteractor) resolvePayment(ctx context.Context, info *paygate.MPPaymentInfo, bookingHint *uuid.UUID, accessToken string) (*payment.Payment, error) {
	if info.Order.ID != 0 {
		order, err := u.mp.GetMerchantOrder(ctx, accessToken, info.Order.ID)
		if err == nil && order.PreferenceID != "" {
			if p, err := u.findByPreference(ctx, order.PreferenceID); p != nil || err != nil {
				return p, err
			}
		} else if err != nil && !errors.Is(err, paygate.ErrMPPaymentNotFound) {
			slog.Warn("merchant order lookup failed during webhook resolution",
				"order_id", info.Order.ID, "error", err.Error())
		}
	}

	if raw, ok := info.Metadata["booking_id"].(string); ok {
		if id, err := uuid.Parse(raw); err == nil {
			if p, err := u.findLatest(ctx, id); p != nil || err != nil {
				return p, err
			}
		}
	}

	if id, ok := bookingIDFromReference(info.ExternalReference); ok {
		if p, err := u.findLatest(ctx, id); p != nil || err != nil {
			return p, err
		}
	}

	if bookingHint != nil {
		return u.findLatest(ctx, *bookingHint)
	}
	return nil, nil
}

func (u *webhookInteractor) findLatest(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	p, err := u.payments.FindLatestByBooking(ctx, u.pool, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (u *webhookInteractor) findByPreference(ctx context.Context, preferenceID string) (*payment.Payment, error) {
	p, err := u.payments.FindByPreferenceID(ctx, u.pool, preferenceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (u *webhookInteractor) recordUnmatched(ctx context.Context, input WebhookInput, reason string) (*WebhookResult, error) {
	slog.Info("webhook event left unmatched", "topic", input.Topic, "reason", reason)
	if err := u.events.Append(ctx, u.pool, nil, payment.ProviderMercadoPago.String(), "webhook_unmatched", input.Body); err != nil {
		return nil, err
	}
	return &WebhookResult{}, nil
}

func (u *webhookInteractor) notifyPayer(ctx context.Context, tx db.DBTX, p *payment.Payment) {
	err := u.notifications.NotifyUser(ctx, tx, p.PayerUserID(), repository.NotificationPayload{
		Type:  "payment_approved",
		Title: "Payment received",
		Body:  fmt.Sprintf("Your payment of %.2f %s was approved", p.Amount(), p.Currency()),
		Data: map[string]any{
			"booking_id": p.BookingID().String(),
			"payment_id": p.ID().String(),
		},
	})
	if err != nil {
		slog.Warn("failed to enqueue payment notification",
			"payment_id", p.ID().String(), "error", err.Error())
	}
}

// mapProviderStatus folds the provider's vocabulary into the local one.
// Unknown values are treated as pending rather than failed; a later event
// with a known status will settle the row.
func mapProviderStatus(s string) payment.Status {
	switch s {
	case "approved", "authorized":
		return payment.StatusApproved
	case "pending":
		return payment.StatusPending
	case "in_process", "in_mediation":
		return payment.StatusInProcess
	case "rejected", "cancelled":
		return payment.StatusFailed
	case "refunded", "charged_back":
		return payment.StatusRefunded
	default:
		return payment.StatusPending
	}
}

func bookingIDFromReference(ref string) (uuid.UUID, bool) {
	const prefix = "booking:"
	if !strings.HasPrefix(ref, prefix) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(ref, prefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// webhookBody is the leniently parsed notification payload. MercadoPago has
// shipped several shapes over the years; data.id arrives as either a string
// or a number.
type webhookBody struct {
	Type   string `json:"type"`
	Topic  string `json:"topic"`
	Action string `json:"action"`
	Data   struct {
		ID any `json:"id"`
	} `json:"data"`
}

func parseWebhookBody(raw []byte) webhookBody {
	var body webhookBody
	if len(raw) > 0 {
		// Malformed bodies are fine; resolution falls back to query hints.
		_ = json.Unmarshal(raw, &body)
	}
	return body
}

func (b webhookBody) topic() string {
	if b.Type != "" {
		return b.Type
	}
	return b.Topic
}

func (b webhookBody) paymentID() string {
	switch v := b.Data.ID.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
