package response

import (
	"time"

	"studiobook/internal/usecase"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentInitResponse struct {
	IDPayment    uuid.UUID `json:"idPayment,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	PreferenceID string    `json:"preferenceId,omitempty"`
	RedirectURL  string    `json:"redirectUrl,omitempty"`
	ClientSecret string    `json:"clientSecret,omitempty"`
	Status       string    `json:"status"`
	Info         string    `json:"info,omitempty"`
}

type PaymentResponse struct {
	ID                uuid.UUID  `json:"id"`
	BookingID         uuid.UUID  `json:"bookingId"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
	Provider          string     `json:"provider"`
	Status            string     `json:"status"`
	RefundedAmount    float64    `json:"refundedAmount"`
	ProviderPaymentID *string    `json:"providerPaymentId,omitempty"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type RefundResponse struct {
	IDPayment      uuid.UUID `json:"idPayment"`
	IDBooking      uuid.UUID `json:"idBooking"`
	RefundedAmount float64   `json:"refundedAmount"`
	Status         string    `json:"status"`
}

type WebhookResponse struct {
	OK   bool   `json:"ok"`
	Info string `json:"info,omitempty"`
}

func FromPaymentInit(r *usecase.PaymentInitResult) *PaymentInitResponse {
	resp := &PaymentInitResponse{
		IDPayment:    r.PaymentID,
		Provider:     r.Provider,
		PreferenceID: r.PreferenceID,
		RedirectURL:  r.RedirectURL,
		ClientSecret: r.ClientSecret,
		Status:       r.Status,
	}
	if r.AlreadyPaid {
		resp.Info = "already_paid"
	}
	return resp
}

func FromPaymentView(rm *queries.PaymentView) *PaymentResponse {
	return &PaymentResponse{
		ID:                rm.ID,
		BookingID:         rm.BookingID,
		Amount:            rm.Amount,
		Currency:          rm.Currency,
		Provider:          rm.Provider,
		Status:            rm.Status,
		RefundedAmount:    rm.RefundedAmount,
		ProviderPaymentID: rm.ProviderPaymentID,
		PaidAt:            rm.PaidAt,
		CreatedAt:         rm.CreatedAt,
	}
}

func FromRefundResult(r *usecase.RefundResult) *RefundResponse {
	return &RefundResponse{
		IDPayment:      r.PaymentID,
		IDBooking:      r.BookingID,
		RefundedAmount: r.RefundedAmount,
		Status:         r.Status,
	}
}
