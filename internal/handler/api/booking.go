package api

import (
	"errors"
	"net/http"

	"studiobook/internal/domain/booking"
	reqdto "studiobook/internal/handler/dto/request"
	resdto "studiobook/internal/handler/dto/response"
	"studiobook/internal/handler/httperr"
	"studiobook/internal/handler/middleware"
	"studiobook/internal/usecase"
	"studiobook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUseCase usecase.BookingUsecase
	refundUseCase  usecase.RefundUsecase
	bookingQueries queries.BookingQueries
}

func NewBookingHandler(bookingUseCase usecase.BookingUsecase, refundUseCase usecase.RefundUsecase, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
		refundUseCase:  refundUseCase,
		bookingQueries: bookingQueries,
	}
}

// @Summary Reserve a room
// @Description Create a booking for a room over [startsAt, endsAt)
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomId path string true "Room ID"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.CreateBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/rooms/{roomId}/reserve [post]
func (h *BookingHandler) Reserve(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user in context"), "Internal server error", "")
		return
	}

	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid room ID format", "invalid_range")
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", "invalid_range")
		return
	}

	created, err := h.bookingUseCase.Create(c.Request.Context(), usecase.CreateBookingInput{
		RoomID:        roomID,
		UserID:        userID,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		Notes:         req.Notes,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		h.abortCreateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCreatedBooking(created))
}

// @Summary Reschedule booking
// @Description Move an existing booking to a new time range
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RescheduleBookingRequest true "Reschedule request"
// @Success 200 {object} resdto.RescheduleBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/reschedule [put]
func (h *BookingHandler) Reschedule(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user in context"), "Internal server error", "")
		return
	}

	var req reqdto.RescheduleBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", "invalid_datetime")
		return
	}

	rescheduled, err := h.bookingUseCase.Reschedule(c.Request.Context(), usecase.RescheduleBookingInput{
		BookingID: req.BookingID,
		UserID:    userID,
		StartsAt:  req.NewStartsAt,
		EndsAt:    req.NewEndsAt,
	})
	if err != nil {
		h.abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRescheduledBooking(rescheduled))
}

// @Summary Cancel booking
// @Description Cancel a booking, refunding an approved payment in full
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CancelBookingRequest true "Cancel request"
// @Success 200 {object} resdto.CancelBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/cancel [put]
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user in context"), "Internal server error", "")
		return
	}

	var req reqdto.CancelBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", "invalid_range")
		return
	}

	role, _ := middleware.GetUserRole(c)
	cancelled, err := h.refundUseCase.CancelBooking(c.Request.Context(), usecase.CancelBookingInput{
		BookingID: req.BookingID,
		UserID:    userID,
		ByStudio:  role == "studio" || role == "admin",
	})
	if err != nil {
		h.abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCancelledBooking(cancelled))
}

// @Summary Get booking
// @Description Get booking by ID
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", "")
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings
// @Description List the current user's bookings, most recent first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListResponse
// @Failure 401 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing user in context"), "Internal server error", "")
		return
	}

	items, err := h.bookingQueries.ListByUser(c.Request.Context(), userID, 50)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", "")
		return
	}

	response := make([]*resdto.BookingListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromBookingListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// abortCreateError narrows every malformed-range outcome to the single
// invalid_range code the create endpoint exposes; reschedule keeps the
// finer-grained datetime codes.
func (h *BookingHandler) abortCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidDatetime),
		errors.Is(err, booking.ErrEndBeforeStart),
		errors.Is(err, booking.ErrTooShort):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking range", "invalid_range")
	default:
		h.abortBookingError(c, err)
	}
}

// abortBookingError maps business outcomes to HTTP statuses with the stable
// info codes clients branch on. Status mapping lives here, never in the
// usecases.
func (h *BookingHandler) abortBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidDatetime):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid datetime", "invalid_datetime")
	case errors.Is(err, booking.ErrEndBeforeStart):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "End must be after start", "end_before_start")
	case errors.Is(err, booking.ErrTooShort):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Booking is shorter than the minimum duration", "invalid_range")
	case errors.Is(err, usecase.ErrOutsideOpeningHours):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Requested range is outside opening hours", "outside_opening_hours")
	case errors.Is(err, usecase.ErrBookingOverlap):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested range overlaps an existing booking", "overlap")
	case errors.Is(err, usecase.ErrRoomNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Room not found", "room_not_found")
	case errors.Is(err, usecase.ErrBookingNotFoundOrNotOwner):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", "booking_not_found_or_not_owner")
	case errors.Is(err, usecase.ErrPaymentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "No payment found for booking", "payment_not_found")
	case errors.Is(err, usecase.ErrBookingAlreadyPaid):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is already paid", "booking_already_paid")
	case errors.Is(err, usecase.ErrBookingAlreadyCancelled):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is already cancelled", "booking_already_cancelled")
	case isNotFound(err):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", "")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", "")
	}
}
