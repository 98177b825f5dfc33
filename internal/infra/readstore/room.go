package readstore

import (
	"context"
	"encoding/json"

	"studiobook/internal/infra"
	"studiobook/internal/infra/db"
	"studiobook/internal/pkg/pgconv"
	"studiobook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// RoomReadStore resolves rooms, studios, owners and payment accounts. This
// data is owned by the directory collaborator and is read-only here.
type RoomReadStore struct {
	db db.DBTX
}

func NewRoomReadStore(dbtx db.DBTX) *RoomReadStore {
	return &RoomReadStore{db: dbtx}
}

func (r *RoomReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RoomView, error) {
	const query = `
		SELECT r.id, r.studio_id, r.name, s.owner_user_id,
		       r.hourly_price, r.timezone, r.opening_hours
		FROM rooms r
		JOIN studios s ON s.id = r.studio_id
		WHERE r.id = $1`

	var (
		view         queries.RoomView
		hourlyPrice  pgtype.Numeric
		timezone     pgtype.Text
		openingHours []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&view.ID, &view.StudioID, &view.Name, &view.OwnerUserID,
		&hourlyPrice, &timezone, &openingHours,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find room", err)
	}

	view.HourlyPrice, err = pgconv.Float64PtrFromNumeric(hourlyPrice)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid hourly price", err)
	}
	view.Timezone = "UTC"
	if timezone.Valid && timezone.String != "" {
		view.Timezone = timezone.String
	}
	if len(openingHours) > 0 {
		// The raw schedule is loosely typed on purpose; normalization
		// happens in the schedule package.
		if err := json.Unmarshal(openingHours, &view.OpeningHours); err != nil {
			view.OpeningHours = nil
		}
	}
	return &view, nil
}

func (r *RoomReadStore) FindAccountByStudio(ctx context.Context, studioID uuid.UUID, provider string) (*queries.AccountView, error) {
	const query = `
		SELECT id, studio_id, provider, access_token, collector_id
		FROM studio_payment_accounts
		WHERE studio_id = $1 AND provider = $2`

	return r.scanAccount(r.db.QueryRow(ctx, query, studioID, provider))
}

func (r *RoomReadStore) FindAccountByID(ctx context.Context, id uuid.UUID) (*queries.AccountView, error) {
	const query = `
		SELECT id, studio_id, provider, access_token, collector_id
		FROM studio_payment_accounts
		WHERE id = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RoomReadStore) scanAccount(row rowScanner) (*queries.AccountView, error) {
	var view queries.AccountView
	err := row.Scan(&view.ID, &view.StudioID, &view.Provider, &view.AccessToken, &view.CollectorID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment account", err)
	}
	return &view, nil
}
