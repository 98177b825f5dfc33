package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"studiobook/internal/domain/payment"
	"studiobook/internal/pkg/config"
	"studiobook/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrMPPaymentNotFound signals read-after-write lag on the provider side:
// a webhook can arrive before the payment is readable through the API, so
// callers retry fetches on this error.
var ErrMPPaymentNotFound = errs.New("mercadopago payment not found")

// MercadoPagoClient is a thin HTTP client over the MercadoPago REST API.
// Credentials are per-call because each studio collects into its own account.
type MercadoPagoClient struct {
	baseURL string
	client  *http.Client
}

func NewMercadoPagoClient(baseURL string) *MercadoPagoClient {
	return &MercadoPagoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type MPPreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

type MPBackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type MPPreferenceRequest struct {
	Items             []MPPreferenceItem `json:"items"`
	ExternalReference string             `json:"external_reference"`
	NotificationURL   string             `json:"notification_url"`
	BackURLs          *MPBackURLs        `json:"back_urls,omitempty"`
	AutoReturn        string             `json:"auto_return,omitempty"`
	Metadata          map[string]any     `json:"metadata,omitempty"`
}

type MPPreference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// MPPaymentInfo is the authoritative payment state fetched from the
// provider after a webhook points at it.
type MPPaymentInfo struct {
	ID                      int64          `json:"id"`
	Status                  string         `json:"status"`
	StatusDetail            string         `json:"status_detail"`
	ExternalReference       string         `json:"external_reference"`
	TransactionAmount       float64        `json:"transaction_amount"`
	TransactionAmountRefund float64        `json:"transaction_amount_refunded"`
	CurrencyID              string         `json:"currency_id"`
	Metadata                map[string]any `json:"metadata"`
	Order                   struct {
		ID int64 `json:"id"`
	} `json:"order"`
}

type MPMerchantOrder struct {
	ID           int64  `json:"id"`
	PreferenceID string `json:"preference_id"`
}

type MPRefundResponse struct {
	ID     int64   `json:"id"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

func (c *MercadoPagoClient) CreatePreference(ctx context.Context, accessToken string, req MPPreferenceRequest) (*MPPreference, error) {
	var pref MPPreference
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", accessToken, req, &pref); err != nil {
		return nil, err
	}
	return &pref, nil
}

func (c *MercadoPagoClient) GetPayment(ctx context.Context, accessToken, paymentID string) (*MPPaymentInfo, error) {
	var info MPPaymentInfo
	path := "/v1/payments/" + url.PathEscape(paymentID)
	if err := c.do(ctx, http.MethodGet, path, accessToken, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *MercadoPagoClient) GetMerchantOrder(ctx context.Context, accessToken string, orderID int64) (*MPMerchantOrder, error) {
	var order MPMerchantOrder
	path := fmt.Sprintf("/merchant_orders/%d", orderID)
	if err := c.do(ctx, http.MethodGet, path, accessToken, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *MercadoPagoClient) RefundPayment(ctx context.Context, accessToken, paymentID string, amount *float64) (*MPRefundResponse, error) {
	var body any
	if amount != nil {
		body = map[string]float64{"amount": *amount}
	}
	var resp MPRefundResponse
	path := "/v1/payments/" + url.PathEscape(paymentID) + "/refunds"
	if err := c.do(ctx, http.MethodPost, path, accessToken, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *MercadoPagoClient) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "mercadopago request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errs.Wrap(err, "failed to read mercadopago response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return errs.Wrapf(ErrMPPaymentNotFound, "%s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep status and body for operator diagnosis; callers surface a
		// generic failure to end users.
		return errs.Wrapf(ErrProviderRejected, "mercadopago %s %s: status=%d body=%s",
			method, path, resp.StatusCode, truncate(respBody, 512))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errs.Wrap(err, "malformed mercadopago response")
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// MercadoPagoGateway implements Gateway on top of the REST client.
type MercadoPagoGateway struct {
	client *MercadoPagoClient
	cfg    config.PaymentsConfig
}

func NewMercadoPagoGateway(client *MercadoPagoClient, cfg config.PaymentsConfig) *MercadoPagoGateway {
	return &MercadoPagoGateway{client: client, cfg: cfg}
}

func (g *MercadoPagoGateway) Provider() payment.Provider {
	return payment.ProviderMercadoPago
}

// ExternalReference is the opaque booking handle embedded in preferences so
// webhook events can be traced back even when every other hint is missing.
func ExternalReference(bookingID uuid.UUID) string {
	return "booking:" + bookingID.String()
}

func (g *MercadoPagoGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiatedPayment, error) {
	// The notification URL carries the account and booking ids as query
	// hints; they anchor webhook resolution when the payload alone is
	// ambiguous.
	notifyURL := fmt.Sprintf("%s/api/payments/webhook?account_id=%s&booking_id=%s",
		g.cfg.WebhookBaseURL, req.AccountID, req.BookingID)

	pref, err := g.client.CreatePreference(ctx, req.AccessToken, MPPreferenceRequest{
		Items: []MPPreferenceItem{{
			Title:      req.Description,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: req.Currency,
		}},
		ExternalReference: ExternalReference(req.BookingID),
		NotificationURL:   notifyURL,
		BackURLs: &MPBackURLs{
			Success: g.cfg.SuccessURL,
			Failure: g.cfg.FailureURL,
		},
		AutoReturn: "approved",
		Metadata: map[string]any{
			"booking_id": req.BookingID.String(),
			"user_id":    req.UserID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	redirect := pref.InitPoint
	if !g.cfg.Production && pref.SandboxInitPoint != "" {
		redirect = pref.SandboxInitPoint
	}

	return &InitiatedPayment{
		Provider:     payment.ProviderMercadoPago,
		PreferenceID: pref.ID,
		RedirectURL:  redirect,
		Status:       payment.StatusCreated,
	}, nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, req RefundRequest) (*RefundOutcome, error) {
	resp, err := g.client.RefundPayment(ctx, req.AccessToken, req.ProviderPaymentID, req.Amount)
	if err != nil {
		return nil, err
	}
	return &RefundOutcome{
		ProviderRefundID: fmt.Sprintf("%d", resp.ID),
		Status:           resp.Status,
	}, nil
}
