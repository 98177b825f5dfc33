package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPaid      = errors.New("booking already paid")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// Booking reserves one room for one contiguous time range. Rows are never
// hard-deleted; cancellation keeps them around for receipts and audit.
type Booking struct {
	id               uuid.UUID
	roomID           uuid.UUID
	userID           uuid.UUID
	timeRange        TimeRange
	status           Status
	pricePerHour     *float64
	totalAmount      *float64
	notes            string
	contactNumber    string
	confirmationCode string
	calendarEventID  *string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewBooking builds a confirmed booking. When the room carries an hourly
// price the total is derived from it; otherwise the total stays unset until
// a price is negotiated out of band.
func NewBooking(roomID, userID uuid.UUID, rng TimeRange, pricePerHour *float64, notes, contactNumber string) *Booking {
	var total *float64
	if pricePerHour != nil {
		t := *pricePerHour * rng.Hours()
		total = &t
	}
	return &Booking{
		id:               uuid.New(),
		roomID:           roomID,
		userID:           userID,
		timeRange:        rng,
		status:           StatusConfirmed,
		pricePerHour:     pricePerHour,
		totalAmount:      total,
		notes:            notes,
		contactNumber:    contactNumber,
		confirmationCode: NewConfirmationCode(),
	}
}

func Reconstruct(
	id, roomID, userID uuid.UUID,
	rng TimeRange,
	status Status,
	pricePerHour, totalAmount *float64,
	notes, contactNumber, confirmationCode string,
	calendarEventID *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:               id,
		roomID:           roomID,
		userID:           userID,
		timeRange:        rng,
		status:           status,
		pricePerHour:     pricePerHour,
		totalAmount:      totalAmount,
		notes:            notes,
		contactNumber:    contactNumber,
		confirmationCode: confirmationCode,
		calendarEventID:  calendarEventID,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// Reschedule moves the booking to a new range, recomputing the total when an
// hourly price is set. Paid and cancelled bookings cannot move.
func (b *Booking) Reschedule(rng TimeRange) error {
	if b.status == StatusPaid {
		return ErrAlreadyPaid
	}
	if b.status.IsCancelled() {
		return ErrAlreadyCancelled
	}
	b.timeRange = rng
	if b.pricePerHour != nil {
		t := *b.pricePerHour * rng.Hours()
		b.totalAmount = &t
	}
	return nil
}

// MarkPaid is idempotent: marking a paid booking paid again is a no-op.
func (b *Booking) MarkPaid() {
	if b.status == StatusConfirmed {
		b.status = StatusPaid
	}
}

func (b *Booking) Cancel(byStudio bool) error {
	if b.status.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if byStudio {
		b.status = StatusCancelledByStudio
	} else {
		b.status = StatusCancelledByUser
	}
	return nil
}

func (b *Booking) IsPaid() bool      { return b.status == StatusPaid }
func (b *Booking) IsCancelled() bool { return b.status.IsCancelled() }

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) RoomID() uuid.UUID         { return b.roomID }
func (b *Booking) UserID() uuid.UUID         { return b.userID }
func (b *Booking) TimeRange() TimeRange      { return b.timeRange }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) PricePerHour() *float64    { return b.pricePerHour }
func (b *Booking) TotalAmount() *float64     { return b.totalAmount }
func (b *Booking) Notes() string             { return b.notes }
func (b *Booking) ContactNumber() string     { return b.contactNumber }
func (b *Booking) ConfirmationCode() string  { return b.confirmationCode }
func (b *Booking) CalendarEventID() *string  { return b.calendarEventID }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }
