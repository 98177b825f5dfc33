package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	StartsAt      time.Time `json:"startsAt" binding:"required"`
	EndsAt        time.Time `json:"endsAt" binding:"required"`
	Notes         string    `json:"notes"`
	ContactNumber string    `json:"contactNumber"`
}

type RescheduleBookingRequest struct {
	BookingID   uuid.UUID `json:"idBooking" binding:"required"`
	NewStartsAt time.Time `json:"newStartsAtIso" binding:"required"`
	NewEndsAt   time.Time `json:"newEndsAtIso" binding:"required"`
}

type CancelBookingRequest struct {
	BookingID uuid.UUID `json:"idBooking" binding:"required"`
}
