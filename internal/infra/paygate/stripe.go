package paygate

import (
	"context"
	"math"
	"strings"

	"studiobook/internal/domain/payment"
	"studiobook/internal/pkg/config"
	"studiobook/internal/pkg/errs"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway creates PaymentIntents with process-wide credentials. The
// client secret is handed back to the caller for client-side confirmation;
// settlement is reported synchronously as approved once the intent succeeds
// or is awaiting confirmation.
type StripeGateway struct {
	api *client.API
	cfg config.PaymentsConfig
}

func NewStripeGateway(cfg config.PaymentsConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)
	return &StripeGateway{api: api, cfg: cfg}
}

func (g *StripeGateway) Provider() payment.Provider {
	return payment.ProviderStripe
}

func (g *StripeGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiatedPayment, error) {
	currency := strings.ToLower(req.Currency)
	if !g.cfg.Production {
		// Test-mode accounts are limited to a single settlement currency.
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(req.Amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String(req.Description),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", req.BookingID.String())
	params.AddMetadata("user_id", req.UserID.String())
	if req.PayerEmail != "" {
		params.ReceiptEmail = stripe.String(req.PayerEmail)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "stripe payment intent creation failed"), ErrProviderRejected)
	}

	return &InitiatedPayment{
		Provider:          payment.ProviderStripe,
		ProviderPaymentID: pi.ID,
		ClientSecret:      pi.ClientSecret,
		Status:            payment.StatusApproved,
	}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, req RefundRequest) (*RefundOutcome, error) {
	return nil, errs.Wrap(ErrRefundUnsupported, "stripe")
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
