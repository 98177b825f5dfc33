//go:build unit || e2e

package builder

import (
	"time"

	dompayment "studiobook/internal/domain/payment"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentBuilder struct {
	BookingID         uuid.UUID
	Amount            float64
	Currency          string
	Provider          dompayment.Provider
	PreferenceID      string
	ProviderPaymentID string
	Status            dompayment.Status
	PayerUserID       uuid.UUID
	PayerEmail        string
	RefundedAmount    float64
	CreatedAt         time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		BookingID:    uuid.New(),
		Amount:       100,
		Currency:     "ARS",
		Provider:     dompayment.ProviderMercadoPago,
		PreferenceID: "pref-test-1",
		Status:       dompayment.StatusCreated,
		PayerUserID:  uuid.New(),
		PayerEmail:   "payer@example.com",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func (p *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(p)
	return p
}

func (p *PaymentBuilder) Clone() *PaymentBuilder {
	var c PaymentBuilder
	_ = copier.Copy(&c, p)
	return &c
}

// Build methods
func (p *PaymentBuilder) BuildDomain() *dompayment.Payment {
	pay := dompayment.New(p.BookingID, p.Amount, p.Currency, p.Provider, p.PreferenceID, p.PayerUserID, p.PayerEmail, nil)
	if p.ProviderPaymentID != "" {
		pay.LinkProviderPayment(p.ProviderPaymentID)
	}
	if p.Status != dompayment.StatusCreated {
		pay.ApplyStatus(p.Status, p.CreatedAt)
	}
	if p.RefundedAmount > 0 {
		_ = pay.ApplyRefund(p.RefundedAmount)
	}
	return pay
}

func (p *PaymentBuilder) BuildViewQuery() *queries.PaymentView {
	email := p.PayerEmail
	view := &queries.PaymentView{
		ID:             uuid.New(),
		BookingID:      p.BookingID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Provider:       p.Provider.String(),
		PreferenceID:   p.PreferenceID,
		Status:         p.Status.String(),
		PayerEmail:     &email,
		RefundedAmount: p.RefundedAmount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.CreatedAt,
	}
	if p.ProviderPaymentID != "" {
		id := p.ProviderPaymentID
		view.ProviderPaymentID = &id
	}
	return view
}

// BuildProviderInfo is the authoritative state the provider reports for this
// payment when the webhook reconciler fetches it.
func (p *PaymentBuilder) BuildProviderInfo(status string) *paygate.MPPaymentInfo {
	return &paygate.MPPaymentInfo{
		ID:                1234567,
		Status:            status,
		ExternalReference: "booking:" + p.BookingID.String(),
		TransactionAmount: p.Amount,
		CurrencyID:        p.Currency,
		Metadata:          map[string]any{"booking_id": p.BookingID.String()},
	}
}
