// Package paygate abstracts the payment providers behind one capability
// interface. Adding a provider means implementing Gateway and registering it
// with the dispatcher; the booking and payment usecases never branch on
// provider names.
package paygate

import (
	"context"

	"studiobook/internal/domain/payment"
	"studiobook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrUnknownProvider   = errs.New("unknown payment provider")
	ErrRefundUnsupported = errs.New("provider does not support refunds")
	ErrProviderRejected  = errs.New("provider rejected the request")
)

// InitiateRequest carries everything an adapter needs to create a payable
// intent for a booking. AccessToken/CollectorID come from the studio's
// payment account; empty for providers with process-wide credentials.
type InitiateRequest struct {
	BookingID   uuid.UUID
	UserID      uuid.UUID
	PayerEmail  string
	Amount      float64
	Currency    string
	Description string

	AccountID   uuid.UUID
	AccessToken string
	CollectorID string
}

// InitiatedPayment is the provider-neutral result of creating an intent.
// Redirect-style providers fill RedirectURL; client-side confirmation
// providers fill ClientSecret. Status lets a synchronous provider report an
// already-settled payment.
type InitiatedPayment struct {
	Provider          payment.Provider
	PreferenceID      string
	ProviderPaymentID string
	RedirectURL       string
	ClientSecret      string
	Status            payment.Status
}

type RefundRequest struct {
	ProviderPaymentID string
	AccessToken       string
	// Amount nil requests a full refund of the remaining balance.
	Amount *float64
}

type RefundOutcome struct {
	ProviderRefundID string
	Status           string
}

type Gateway interface {
	Provider() payment.Provider
	Initiate(ctx context.Context, req InitiateRequest) (*InitiatedPayment, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundOutcome, error)
}

// Dispatcher picks a gateway by the request's provider parameter, falling
// back to the configured default when none is given.
type Dispatcher struct {
	gateways        map[payment.Provider]Gateway
	defaultProvider payment.Provider
}

func NewDispatcher(defaultProvider payment.Provider, gateways ...Gateway) *Dispatcher {
	m := make(map[payment.Provider]Gateway, len(gateways))
	for _, g := range gateways {
		m[g.Provider()] = g
	}
	return &Dispatcher{gateways: m, defaultProvider: defaultProvider}
}

func (d *Dispatcher) Select(name string) (Gateway, error) {
	p := payment.Provider(name)
	if name == "" {
		p = d.defaultProvider
	}
	g, ok := d.gateways[p]
	if !ok {
		return nil, errs.Wrapf(ErrUnknownProvider, "provider %q", name)
	}
	return g, nil
}
