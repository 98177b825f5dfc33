//go:build unit || e2e

package builder

import (
	"time"

	dombooking "studiobook/internal/domain/booking"
	reqdto "studiobook/internal/handler/dto/request"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingBuilder struct {
	RoomID        uuid.UUID
	StudioID      uuid.UUID
	RoomName      string
	OwnerUserID   uuid.UUID
	UserID        uuid.UUID
	StartsAt      time.Time
	EndsAt        time.Time
	HourlyPrice   float64
	Timezone      string
	OpeningHours  map[string]any
	Notes         string
	ContactNumber string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	// Next Monday at 10:00, inside the default schedule below.
	starts := now.AddDate(0, 0, int((7+time.Monday-now.Weekday())%7)+7)
	starts = time.Date(starts.Year(), starts.Month(), starts.Day(), 10, 0, 0, 0, time.UTC)

	return &BookingBuilder{
		RoomID:        uuid.New(),
		StudioID:      uuid.New(),
		RoomName:      "Rehearsal Room A",
		OwnerUserID:   uuid.New(),
		UserID:        uuid.New(),
		StartsAt:      starts,
		EndsAt:        starts.Add(2 * time.Hour),
		HourlyPrice:   50,
		Timezone:      "UTC",
		OpeningHours:  map[string]any{"monday": "09:00-18:00"},
		Notes:         "band rehearsal",
		ContactNumber: "+54 11 5555-0100",
		Status:        dombooking.StatusConfirmed.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Clone() *BookingBuilder {
	var c BookingBuilder
	_ = copier.Copy(&c, b)
	return &c
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	rng, err := dombooking.NewTimeRange(b.StartsAt, b.EndsAt)
	if err != nil {
		return nil, err
	}
	price := b.HourlyPrice
	return dombooking.NewBooking(b.RoomID, b.UserID, rng, &price, b.Notes, b.ContactNumber), nil
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		StartsAt:      b.StartsAt,
		EndsAt:        b.EndsAt,
		Notes:         b.Notes,
		ContactNumber: b.ContactNumber,
	}
}

func (b *BookingBuilder) BuildRescheduleRequestDTO(bookingID uuid.UUID) reqdto.RescheduleBookingRequest {
	return reqdto.RescheduleBookingRequest{
		BookingID:   bookingID,
		NewStartsAt: b.StartsAt.Add(24 * time.Hour),
		NewEndsAt:   b.EndsAt.Add(24 * time.Hour),
	}
}

func (b *BookingBuilder) BuildRoomView() *queries.RoomView {
	price := b.HourlyPrice
	return &queries.RoomView{
		ID:           b.RoomID,
		StudioID:     b.StudioID,
		Name:         b.RoomName,
		OwnerUserID:  b.OwnerUserID,
		HourlyPrice:  &price,
		Timezone:     b.Timezone,
		OpeningHours: b.OpeningHours,
	}
}

func (b *BookingBuilder) BuildViewQuery() *queries.BookingView {
	price := b.HourlyPrice
	total := price * b.EndsAt.Sub(b.StartsAt).Hours()
	notes := b.Notes
	contact := b.ContactNumber
	return &queries.BookingView{
		ID:               uuid.New(),
		RoomID:           b.RoomID,
		RoomName:         b.RoomName,
		UserID:           b.UserID,
		StartsAt:         b.StartsAt,
		EndsAt:           b.EndsAt,
		Status:           b.Status,
		PricePerHour:     &price,
		TotalAmount:      &total,
		Notes:            &notes,
		ContactNumber:    &contact,
		ConfirmationCode: "BKTEST42",
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:        uuid.New(),
		RoomID:    b.RoomID,
		RoomName:  b.RoomName,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
}
