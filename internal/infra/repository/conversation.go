package repository

import (
	"context"

	"studiobook/internal/infra"
	"studiobook/internal/infra/db"

	"github.com/google/uuid"
)

// ConversationRepository is the narrow seam to the messaging collaborator: a
// booking gets one conversation between the requester and the studio owner,
// created inside the booking transaction so it rolls back with it.
type ConversationRepository struct{}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{}
}

func (r *ConversationRepository) FindOrCreateForBooking(ctx context.Context, tx db.DBTX, bookingID, roomID, bookingUserID, ownerUserID uuid.UUID) (uuid.UUID, error) {
	const insert = `
		INSERT INTO conversations (id, booking_id, room_id, booking_user_id, owner_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (booking_id) DO NOTHING`

	if _, err := tx.Exec(ctx, insert, uuid.New(), bookingID, roomID, bookingUserID, ownerUserID); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create conversation", err)
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM conversations WHERE booking_id = $1`, bookingID).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to load conversation", err)
	}
	return id, nil
}
