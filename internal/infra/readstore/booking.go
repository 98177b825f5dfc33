package readstore

import (
	"context"

	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/pkg/pgconv"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const query = `
		SELECT b.id, b.room_id, rm.name, b.user_id, b.starts_at, b.ends_at,
		       b.status, b.price_per_hour, b.total_amount, b.notes,
		       b.contact_number, b.confirmation_code, c.id, b.created_at, b.updated_at
		FROM bookings b
		JOIN rooms rm ON rm.id = b.room_id
		LEFT JOIN conversations c ON c.booking_id = b.id
		WHERE b.id = $1`

	var (
		view          queries.BookingView
		pricePerHour  pgtype.Numeric
		totalAmount   pgtype.Numeric
		notes         pgtype.Text
		contactNumber pgtype.Text
		convID        pgtype.UUID
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.RoomID, &view.RoomName, &view.UserID,
		&view.StartsAt, &view.EndsAt, &view.Status,
		&pricePerHour, &totalAmount, &notes, &contactNumber,
		&view.ConfirmationCode, &convID, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}

	if view.PricePerHour, err = pgconv.Float64PtrFromNumeric(pricePerHour); err != nil {
		return nil, infra.WrapRepoErr("invalid price per hour", err)
	}
	if view.TotalAmount, err = pgconv.Float64PtrFromNumeric(totalAmount); err != nil {
		return nil, infra.WrapRepoErr("invalid total amount", err)
	}
	view.Notes = pgconv.StringPtrFromPgtype(notes)
	view.ContactNumber = pgconv.StringPtrFromPgtype(contactNumber)
	view.ConversationID = pgconv.UUIDPtrFromPgtype(convID)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}

func (r *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	const query = `
		SELECT b.id, b.room_id, rm.name, b.starts_at, b.ends_at, b.status, b.created_at
		FROM bookings b
		JOIN rooms rm ON rm.id = b.room_id
		WHERE b.user_id = $1
		ORDER BY b.starts_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var (
			item      queries.BookingListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.RoomID, &item.RoomName,
			&item.StartsAt, &item.EndsAt, &item.Status, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}
	return items, nil
}
