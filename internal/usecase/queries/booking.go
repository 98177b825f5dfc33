package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID               uuid.UUID `json:"id"`
	RoomID           uuid.UUID `json:"room_id"`
	RoomName         string    `json:"room_name"`
	UserID           uuid.UUID `json:"user_id"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	Status           string    `json:"status"`
	PricePerHour     *float64  `json:"price_per_hour,omitempty"`
	TotalAmount      *float64  `json:"total_amount,omitempty"`
	Notes            *string   `json:"notes,omitempty"`
	ContactNumber    *string   `json:"contact_number,omitempty"`
	ConfirmationCode string    `json:"confirmation_code"`
	ConversationID   *uuid.UUID `json:"conversation_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID        uuid.UUID `json:"id"`
	RoomID    uuid.UUID `json:"room_id"`
	RoomName  string    `json:"room_name"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomView is the directory collaborator's snapshot of a room: opening hours
// arrive as the raw heterogeneous weekly schedule and are normalized at
// validation time.
type RoomView struct {
	ID           uuid.UUID      `json:"id"`
	StudioID     uuid.UUID      `json:"studio_id"`
	Name         string         `json:"name"`
	OwnerUserID  uuid.UUID      `json:"owner_user_id"`
	HourlyPrice  *float64       `json:"hourly_price,omitempty"`
	Timezone     string         `json:"timezone"`
	OpeningHours map[string]any `json:"opening_hours,omitempty"`
}

// AccountView is a studio's payment account: the credentials used both to
// create provider preferences and to fetch the authoritative payment state
// during webhook reconciliation.
type AccountView struct {
	ID          uuid.UUID `json:"id"`
	StudioID    uuid.UUID `json:"studio_id"`
	Provider    string    `json:"provider"`
	AccessToken string    `json:"-"`
	CollectorID string    `json:"collector_id"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*BookingListItem, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*BookingListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.store.FindByUserID(ctx, userID, int32(limit))
}
