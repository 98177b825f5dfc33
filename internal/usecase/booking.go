package usecase

import (
	"context"
	"log/slog"
	"time"

	"studiobook/internal/domain/booking"
	"studiobook/internal/domain/schedule"
	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/infra/repository"
	"studiobook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrRoomNotFound              = errs.New("room not found")
	ErrBookingOverlap            = errs.New("requested range overlaps an existing booking")
	ErrOutsideOpeningHours       = errs.New("requested range is outside the room's opening hours")
	ErrBookingNotFoundOrNotOwner = errs.New("booking not found")
	ErrBookingAlreadyPaid        = errs.New("booking already paid")
	ErrBookingAlreadyCancelled   = errs.New("booking already cancelled")
)

type CreateBookingInput struct {
	RoomID        uuid.UUID
	UserID        uuid.UUID
	StartsAt      time.Time
	EndsAt        time.Time
	Notes         string
	ContactNumber string
}

type CreatedBooking struct {
	BookingID        uuid.UUID
	ConversationID   uuid.UUID
	ConfirmationCode string
	Status           string
	TotalAmount      *float64
}

type RescheduleBookingInput struct {
	BookingID uuid.UUID
	UserID    uuid.UUID
	StartsAt  time.Time
	EndsAt    time.Time
}

type RescheduledBooking struct {
	BookingID   uuid.UUID
	StartsAt    time.Time
	EndsAt      time.Time
	TotalAmount *float64
}

type BookingUsecase interface {
	Create(ctx context.Context, input CreateBookingInput) (*CreatedBooking, error)
	Reschedule(ctx context.Context, input RescheduleBookingInput) (*RescheduledBooking, error)
}

type bookingInteractor struct {
	runner        db.TxRunner
	pool          db.DBTX
	bookings      BookingStore
	conversations ConversationStore
	notifications NotificationStore
	rooms         RoomReader
}

func NewBookingUsecase(
	runner db.TxRunner,
	pool db.DBTX,
	bookings BookingStore,
	conversations ConversationStore,
	notifications NotificationStore,
	rooms RoomReader,
) BookingUsecase {
	return &bookingInteractor{
		runner:        runner,
		pool:          pool,
		bookings:      bookings,
		conversations: conversations,
		notifications: notifications,
		rooms:         rooms,
	}
}

// Create reserves a room for [StartsAt, EndsAt). The opening-hours check runs
// outside the transaction (it needs no database state beyond the room row);
// the overlap check and insert run under a per-room advisory lock so two
// concurrent requests for intersecting ranges cannot both succeed.
func (u *bookingInteractor) Create(ctx context.Context, input CreateBookingInput) (*CreatedBooking, error) {
	rng, err := booking.NewTimeRange(input.StartsAt, input.EndsAt)
	if err != nil {
		return nil, err
	}

	room, err := u.rooms.FindByID(ctx, input.RoomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrRoomNotFound)
		}
		return nil, err
	}

	if err := u.checkOpeningHours(room.OpeningHours, room.Timezone, rng); err != nil {
		return nil, err
	}

	b := booking.NewBooking(input.RoomID, input.UserID, rng, room.HourlyPrice, input.Notes, input.ContactNumber)

	var conversationID uuid.UUID
	err = u.runner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := u.bookings.LockRoomSchedule(ctx, tx, input.RoomID); err != nil {
			return err
		}
		overlaps, err := u.bookings.HasOverlap(ctx, tx, input.RoomID, rng.Start(), rng.End(), uuid.Nil)
		if err != nil {
			return err
		}
		if overlaps {
			return ErrBookingOverlap
		}
		if err := u.bookings.Insert(ctx, tx, b); err != nil {
			return err
		}
		conversationID, err = u.conversations.FindOrCreateForBooking(ctx, tx, b.ID(), input.RoomID, input.UserID, room.OwnerUserID)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.notifyOwner(ctx, room.OwnerUserID, b, room.Name)

	return &CreatedBooking{
		BookingID:        b.ID(),
		ConversationID:   conversationID,
		ConfirmationCode: b.ConfirmationCode(),
		Status:           b.Status().String(),
		TotalAmount:      b.TotalAmount(),
	}, nil
}

// Reschedule moves an existing booking. The row lock taken by FindForUpdate
// serializes concurrent reschedules of the same booking and also blocks a
// concurrent webhook from flipping it to paid mid-flight.
func (u *bookingInteractor) Reschedule(ctx context.Context, input RescheduleBookingInput) (*RescheduledBooking, error) {
	rng, err := booking.NewTimeRange(input.StartsAt, input.EndsAt)
	if err != nil {
		return nil, err
	}

	var b *booking.Booking
	err = u.runner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err = u.bookings.FindForUpdate(ctx, tx, input.BookingID, input.UserID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrBookingNotFoundOrNotOwner)
			}
			return err
		}

		room, err := u.rooms.FindByID(ctx, b.RoomID())
		if err != nil {
			return err
		}
		if err := u.checkOpeningHours(room.OpeningHours, room.Timezone, rng); err != nil {
			return err
		}

		if err := b.Reschedule(rng); err != nil {
			switch err {
			case booking.ErrAlreadyPaid:
				return errs.Mark(err, ErrBookingAlreadyPaid)
			case booking.ErrAlreadyCancelled:
				return errs.Mark(err, ErrBookingAlreadyCancelled)
			}
			return err
		}

		if err := u.bookings.LockRoomSchedule(ctx, tx, b.RoomID()); err != nil {
			return err
		}
		overlaps, err := u.bookings.HasOverlap(ctx, tx, b.RoomID(), rng.Start(), rng.End(), b.ID())
		if err != nil {
			return err
		}
		if overlaps {
			return ErrBookingOverlap
		}
		return u.bookings.UpdateSchedule(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	return &RescheduledBooking{
		BookingID:   b.ID(),
		StartsAt:    b.TimeRange().Start(),
		EndsAt:      b.TimeRange().End(),
		TotalAmount: b.TotalAmount(),
	}, nil
}

// checkOpeningHours validates the range against the room's weekly schedule in
// the room's timezone. A room with no schedule accepts any range.
func (u *bookingInteractor) checkOpeningHours(raw map[string]any, tz string, rng booking.TimeRange) error {
	spec := schedule.Normalize(raw)
	if spec.IsEmpty() {
		return nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	if !schedule.Covers(spec, rng.Start(), rng.End(), loc) {
		return ErrOutsideOpeningHours
	}
	return nil
}

// notifyOwner enqueues a push job after commit. Failure to enqueue never
// fails the booking.
func (u *bookingInteractor) notifyOwner(ctx context.Context, ownerID uuid.UUID, b *booking.Booking, roomName string) {
	err := u.notifications.NotifyUser(ctx, u.pool, ownerID, repository.NotificationPayload{
		Type:  "booking_created",
		Title: "New booking",
		Body:  "A new booking was made for " + roomName,
		Data: map[string]any{
			"booking_id": b.ID().String(),
			"room_id":    b.RoomID().String(),
			"starts_at":  b.TimeRange().Start().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		slog.Warn("failed to enqueue booking notification",
			"booking_id", b.ID().String(), "error", err.Error())
	}
}
