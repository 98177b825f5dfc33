package repository

import (
	"context"
	"time"

	"studiobook/internal/domain/booking"
	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const bookingColumns = `
	id, room_id, user_id, starts_at, ends_at, status,
	price_per_hour, total_amount, notes, contact_number,
	confirmation_code, calendar_event_id, created_at, updated_at`

// LockRoomSchedule serializes overlap-check-then-insert for one room within
// the current transaction. The advisory lock is released at commit/rollback.
func (r *BookingRepository) LockRoomSchedule(ctx context.Context, tx db.DBTX, roomID uuid.UUID) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, roomID)
	if err != nil {
		return infra.WrapRepoErr("failed to acquire room schedule lock", err)
	}
	return nil
}

// HasOverlap reports whether any non-cancelled booking in the room intersects
// [start, end). excludeID skips the booking being rescheduled; pass uuid.Nil
// on create.
func (r *BookingRepository) HasOverlap(ctx context.Context, tx db.DBTX, roomID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND id <> $4
			  AND status NOT IN ('cancelled_by_user', 'cancelled_by_studio')
			  AND NOT (ends_at <= $2 OR starts_at >= $3)
		)`

	var exists bool
	if err := tx.QueryRow(ctx, query, roomID, start, end, excludeID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

func (r *BookingRepository) Insert(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, room_id, user_id, starts_at, ends_at, status,
			price_per_hour, total_amount, notes, contact_number,
			confirmation_code, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`

	_, err := tx.Exec(ctx, query,
		b.ID(), b.RoomID(), b.UserID(),
		b.TimeRange().Start(), b.TimeRange().End(), b.Status().String(),
		pgconv.Float64PtrToNumeric(b.PricePerHour()),
		pgconv.Float64PtrToNumeric(b.TotalAmount()),
		b.Notes(), b.ContactNumber(), b.ConfirmationCode(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

// FindForUpdate locks the booking row for the rest of the transaction,
// scoped to its owner and excluding cancelled rows. A missing row means
// not-found-or-not-owner; callers must not distinguish the two.
func (r *BookingRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id, ownerID uuid.UUID) (*booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1
		  AND user_id = $2
		  AND status NOT IN ('cancelled_by_user', 'cancelled_by_studio')
		FOR UPDATE`

	b, err := scanBooking(tx.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found for owner", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}
	return b, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(dbtx.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

func (r *BookingRepository) UpdateSchedule(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET starts_at = $2, ends_at = $3, total_amount = $4, updated_at = now()
		WHERE id = $1`

	_, err := tx.Exec(ctx, query,
		b.ID(), b.TimeRange().Start(), b.TimeRange().End(),
		pgconv.Float64PtrToNumeric(b.TotalAmount()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking schedule", err)
	}
	return nil
}

// MarkPaid flips a confirmed booking to paid. Re-applying to an already paid
// booking matches zero rows, which keeps webhook redelivery safe.
func (r *BookingRepository) MarkPaid(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const query = `
		UPDATE bookings SET status = 'paid', updated_at = now()
		WHERE id = $1 AND status = 'confirmed'`

	if _, err := dbtx.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to mark booking paid", err)
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status booking.Status) error {
	const query = `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`

	if _, err := dbtx.Exec(ctx, query, id, status.String()); err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, roomID, userID uuid.UUID
		startsAt, endsAt   time.Time
		status             string
		pricePerHour       pgtype.Numeric
		totalAmount        pgtype.Numeric
		notes              pgtype.Text
		contactNumber      pgtype.Text
		confirmationCode   string
		calendarEventID    pgtype.Text
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &roomID, &userID, &startsAt, &endsAt, &status,
		&pricePerHour, &totalAmount, &notes, &contactNumber,
		&confirmationCode, &calendarEventID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	price, err := pgconv.Float64PtrFromNumeric(pricePerHour)
	if err != nil {
		return nil, err
	}
	total, err := pgconv.Float64PtrFromNumeric(totalAmount)
	if err != nil {
		return nil, err
	}

	return booking.Reconstruct(
		id, roomID, userID,
		booking.ReconstructTimeRange(startsAt, endsAt),
		booking.Status(status),
		price, total,
		textOrEmpty(notes), textOrEmpty(contactNumber), confirmationCode,
		pgconv.StringPtrFromPgtype(calendarEventID),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func textOrEmpty(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}
