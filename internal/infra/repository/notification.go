package repository

import (
	"context"
	"encoding/json"
	"time"

	"studiobook/internal/infra"
	"studiobook/internal/infra/db"

	"github.com/google/uuid"
)

// NotificationRepository enqueues delivery jobs for the notification
// collaborator. Delivery itself (push/email transport) happens elsewhere;
// from here it is fire-and-forget.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

type NotificationPayload struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Data    map[string]any `json:"data,omitempty"`
	Channel string         `json:"channel,omitempty"`
}

func (r *NotificationRepository) NotifyUser(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, p NotificationPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO notification_jobs (id, user_id, kind, topic, payload, run_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'queued', now())`

	_, err = dbtx.Exec(ctx, query, uuid.New(), userID, "push", p.Type, payload, time.Now())
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return nil
}
