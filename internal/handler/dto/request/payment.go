package request

type CreatePaymentRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Provider string `json:"provider" binding:"omitempty,oneof=mercadopago stripe"`
}

type RefundPaymentRequest struct {
	Amount *float64 `json:"amount" binding:"omitempty,gt=0"`
}
