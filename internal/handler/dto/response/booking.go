package response

import (
	"time"

	"studiobook/internal/usecase"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreateBookingResponse struct {
	IDBooking        uuid.UUID `json:"idBooking"`
	ConfirmationCode string    `json:"confirmationCode"`
	IDConversation   uuid.UUID `json:"idConversation"`
	Status           string    `json:"status"`
	TotalAmount      *float64  `json:"totalAmount,omitempty"`
}

type BookingResponse struct {
	ID               uuid.UUID  `json:"id"`
	RoomID           uuid.UUID  `json:"roomId"`
	RoomName         string     `json:"roomName"`
	UserID           uuid.UUID  `json:"userId"`
	StartsAt         time.Time  `json:"startsAt"`
	EndsAt           time.Time  `json:"endsAt"`
	Status           string     `json:"status"`
	PricePerHour     *float64   `json:"pricePerHour,omitempty"`
	TotalAmount      *float64   `json:"totalAmount,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	ContactNumber    *string    `json:"contactNumber,omitempty"`
	ConfirmationCode string     `json:"confirmationCode"`
	ConversationID   *uuid.UUID `json:"conversationId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type BookingListResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"roomId"`
	RoomName  string    `json:"roomName"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type RescheduleBookingResponse struct {
	IDBooking   uuid.UUID `json:"idBooking"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	TotalAmount *float64  `json:"totalAmount,omitempty"`
}

type CancelBookingResponse struct {
	IDBooking      uuid.UUID `json:"idBooking"`
	Status         string    `json:"status"`
	RefundedAmount *float64  `json:"refundedAmount,omitempty"`
	RefundStatus   *string   `json:"refundStatus,omitempty"`
}

func FromCreatedBooking(created *usecase.CreatedBooking) *CreateBookingResponse {
	return &CreateBookingResponse{
		IDBooking:        created.BookingID,
		ConfirmationCode: created.ConfirmationCode,
		IDConversation:   created.ConversationID,
		Status:           created.Status,
		TotalAmount:      created.TotalAmount,
	}
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:               rm.ID,
		RoomID:           rm.RoomID,
		RoomName:         rm.RoomName,
		UserID:           rm.UserID,
		StartsAt:         rm.StartsAt,
		EndsAt:           rm.EndsAt,
		Status:           rm.Status,
		PricePerHour:     rm.PricePerHour,
		TotalAmount:      rm.TotalAmount,
		Notes:            rm.Notes,
		ContactNumber:    rm.ContactNumber,
		ConfirmationCode: rm.ConfirmationCode,
		ConversationID:   rm.ConversationID,
		CreatedAt:        rm.CreatedAt,
		UpdatedAt:        rm.UpdatedAt,
	}
}

func FromBookingListItem(rm *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:        rm.ID,
		RoomID:    rm.RoomID,
		RoomName:  rm.RoomName,
		StartsAt:  rm.StartsAt,
		EndsAt:    rm.EndsAt,
		Status:    rm.Status,
		CreatedAt: rm.CreatedAt,
	}
}

func FromRescheduledBooking(r *usecase.RescheduledBooking) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		IDBooking:   r.BookingID,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		TotalAmount: r.TotalAmount,
	}
}

func FromCancelledBooking(cb *usecase.CancelledBooking) *CancelBookingResponse {
	resp := &CancelBookingResponse{
		IDBooking: cb.BookingID,
		Status:    cb.Status,
	}
	if cb.Refund != nil {
		resp.RefundedAmount = &cb.Refund.RefundedAmount
		status := cb.Refund.Status
		resp.RefundStatus = &status
	}
	return resp
}
