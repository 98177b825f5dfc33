package payment

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// RefundEpsilon absorbs float drift when deciding whether a cumulative
// refund covers the full amount.
const RefundEpsilon = 0.01

var (
	ErrNothingToRefund     = errors.New("nothing left to refund")
	ErrProviderPaymentGone = errors.New("provider payment id not linked yet")
)

// Payment is one attempt to collect money for a booking through one
// provider. The provider payment id stays empty until the first webhook (or
// synchronous confirmation) links it.
type Payment struct {
	id                 uuid.UUID
	bookingID          uuid.UUID
	amount             float64
	currency           string
	provider           Provider
	preferenceID       string
	providerPaymentID  *string
	status             Status
	payerUserID        uuid.UUID
	payerEmail         string
	refundedAmount     float64
	paidAt             *time.Time
	collectorAccountID *uuid.UUID
	createdAt          time.Time
	updatedAt          time.Time
}

func New(bookingID uuid.UUID, amount float64, currency string, provider Provider, preferenceID string, payerUserID uuid.UUID, payerEmail string, collectorAccountID *uuid.UUID) *Payment {
	return &Payment{
		id:                 uuid.New(),
		bookingID:          bookingID,
		amount:             amount,
		currency:           currency,
		provider:           provider,
		preferenceID:       preferenceID,
		status:             StatusCreated,
		payerUserID:        payerUserID,
		payerEmail:         payerEmail,
		collectorAccountID: collectorAccountID,
	}
}

func Reconstruct(
	id, bookingID uuid.UUID,
	amount float64,
	currency string,
	provider Provider,
	preferenceID string,
	providerPaymentID *string,
	status Status,
	payerUserID uuid.UUID,
	payerEmail string,
	refundedAmount float64,
	paidAt *time.Time,
	collectorAccountID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:                 id,
		bookingID:          bookingID,
		amount:             amount,
		currency:           currency,
		provider:           provider,
		preferenceID:       preferenceID,
		providerPaymentID:  providerPaymentID,
		status:             status,
		payerUserID:        payerUserID,
		payerEmail:         payerEmail,
		refundedAmount:     refundedAmount,
		paidAt:             paidAt,
		collectorAccountID: collectorAccountID,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// ApplyStatus transitions to next and reports whether anything changed.
// Repeating the same transition is a no-op, which is what makes webhook
// redelivery safe.
func (p *Payment) ApplyStatus(next Status, at time.Time) bool {
	if p.status == next {
		return false
	}
	p.status = next
	if next == StatusApproved && p.paidAt == nil {
		t := at
		p.paidAt = &t
	}
	return true
}

// LinkProviderPayment records the provider's true payment id the first time
// it is seen; later events never overwrite it.
func (p *Payment) LinkProviderPayment(providerPaymentID string) bool {
	if p.providerPaymentID != nil || providerPaymentID == "" {
		return false
	}
	p.providerPaymentID = &providerPaymentID
	return true
}

// RemainingRefundable is the amount still collectable back from the provider.
func (p *Payment) RemainingRefundable() float64 {
	remaining := p.amount - p.refundedAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyRefund accumulates a completed refund and settles the status:
// refunded when the cumulative total reaches the original amount (within
// RefundEpsilon), partially_refunded otherwise.
func (p *Payment) ApplyRefund(amount float64) error {
	if amount <= 0 {
		return ErrNothingToRefund
	}
	p.refundedAmount += amount
	if math.Abs(p.amount-p.refundedAmount) < RefundEpsilon || p.refundedAmount > p.amount {
		p.status = StatusRefunded
	} else {
		p.status = StatusPartiallyRefunded
	}
	return nil
}

func (p *Payment) ID() uuid.UUID                  { return p.id }
func (p *Payment) BookingID() uuid.UUID           { return p.bookingID }
func (p *Payment) Amount() float64                { return p.amount }
func (p *Payment) Currency() string               { return p.currency }
func (p *Payment) Provider() Provider             { return p.provider }
func (p *Payment) PreferenceID() string           { return p.preferenceID }
func (p *Payment) ProviderPaymentID() *string     { return p.providerPaymentID }
func (p *Payment) Status() Status                 { return p.status }
func (p *Payment) PayerUserID() uuid.UUID         { return p.payerUserID }
func (p *Payment) PayerEmail() string             { return p.payerEmail }
func (p *Payment) RefundedAmount() float64        { return p.refundedAmount }
func (p *Payment) PaidAt() *time.Time             { return p.paidAt }
func (p *Payment) CollectorAccountID() *uuid.UUID { return p.collectorAccountID }
func (p *Payment) CreatedAt() time.Time           { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time           { return p.updatedAt }
