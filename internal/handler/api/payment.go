package api

import (
	"errors"
	"net/http"

	"studiobook/internal/domain/payment"
	reqdto "studiobook/internal/handler/dto/request"
	resdto "studiobook/internal/handler/dto/response"
	"studiobook/internal/handler/httperr"
	"studiobook/internal/handler/middleware"
	"studiobook/internal/infra"
	"studiobook/internal/infra/paygate"
	"studiobook/internal/usecase"
	"studiobook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentUseCase usecase.PaymentUsecase
	refundUseCase  usecase.RefundUsecase
	paymentQueries queries.PaymentQueries
}

func NewPaymentHandler(paymentUseCase usecase.PaymentUsecase, refundUseCase usecase.RefundUsecase, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		refundUseCase:  refundUseCase,
		paymentQueries: paymentQueries,
	}
}

// @Summary Create payment for booking
// @Description Create (or reuse) the payable intent for a booking
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param idBooking path string true "Booking ID"
// @Param request body reqdto.CreatePaymentRequest true "Payment request"
// @Success 200 {object} resdto.PaymentInitResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/booking/{idBooking} [post]
func (h *PaymentHandler) CreateForBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user in context"), "Internal server error", "")
		return
	}

	bookingID, err := uuid.Parse(c.Param("idBooking"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", "")
		return
	}

	var req reqdto.CreatePaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", "")
		return
	}

	result, err := h.paymentUseCase.CreateForBooking(c.Request.Context(), usecase.CreatePaymentInput{
		BookingID:  bookingID,
		UserID:     userID,
		PayerEmail: req.Email,
		Provider:   req.Provider,
	})
	if err != nil {
		h.abortPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentInit(result))
}

// @Summary Get latest payment for booking
// @Description Get the most recent payment attempt for a booking
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param idBooking path string true "Booking ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/booking/{idBooking} [get]
func (h *PaymentHandler) GetForBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("idBooking"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", "")
		return
	}

	view, err := h.paymentQueries.GetLatestForBooking(c.Request.Context(), bookingID)
	if err != nil {
		h.abortPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary Refund payment
// @Description Refund a payment, in full or partially
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.RefundPaymentRequest true "Refund request"
// @Success 200 {object} resdto.RefundResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payments/refund/{id} [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format", "")
		return
	}

	var req reqdto.RefundPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", "")
		return
	}

	result, err := h.refundUseCase.Refund(c.Request.Context(), paymentID, req.Amount)
	if err != nil {
		h.abortPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRefundResult(result))
}

func (h *PaymentHandler) abortPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrBookingNotFoundOrNotOwner):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", "booking_not_found_or_not_owner")
	case errors.Is(err, usecase.ErrPaymentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", "payment_not_found")
	case errors.Is(err, usecase.ErrBookingNotPayable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not payable", "booking_not_payable")
	case errors.Is(err, usecase.ErrBookingHasNoAmount):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking has no amount to charge", "no_amount")
	case errors.Is(err, usecase.ErrNoPaymentAccount):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Studio has no payment account", "no_payment_account")
	case errors.Is(err, paygate.ErrUnknownProvider):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown payment provider", "unknown_provider")
	case errors.Is(err, paygate.ErrRefundUnsupported):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Provider does not support refunds", "refund_unsupported")
	case errors.Is(err, payment.ErrProviderPaymentGone):
		httperr.AbortWithError(c, http.StatusConflict, err, "Provider payment not linked yet", "provider_payment_pending")
	case errors.Is(err, payment.ErrNothingToRefund):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Nothing left to refund", "nothing_to_refund")
	case errors.Is(err, usecase.ErrPaymentNotRefundable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Payment is not refundable", "not_refundable")
	case errors.Is(err, usecase.ErrRefundExceedsRemaining):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Refund exceeds remaining balance", "refund_exceeds_remaining")
	case errors.Is(err, paygate.ErrProviderRejected):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment provider rejected the request", "provider_rejected")
	case isNotFound(err):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", "")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", "")
	}
}

func isNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}
