//go:build unit || e2e

package dbtest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Directory data (studios, rooms, payment accounts) is owned by another
// service in production and consumed read-only here, so tests insert it
// directly instead of going through an API.

func CreateTestStudio(t *testing.T, db DBLike, name string, ownerUserID uuid.UUID) uuid.UUID {
	t.Helper()

	studioID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO studios (id, owner_user_id, name) VALUES ($1, $2, $3)",
		studioID, ownerUserID, name)
	require.NoError(t, err)

	return studioID
}

func CreateTestRoom(t *testing.T, db DBLike, studioID uuid.UUID, name string, hourlyPrice float64, timezone string, openingHours map[string]any) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	ctx := context.Background()

	var hoursJSON *string
	if openingHours != nil {
		raw, err := json.Marshal(openingHours)
		require.NoError(t, err)
		s := string(raw)
		hoursJSON = &s
	}

	_, err := db.Exec(ctx,
		"INSERT INTO rooms (id, studio_id, name, hourly_price, timezone, opening_hours) VALUES ($1, $2, $3, $4, $5, $6::jsonb)",
		roomID, studioID, name, hourlyPrice, timezone, hoursJSON)
	require.NoError(t, err)

	return roomID
}

// WeekdayHours builds an opening-hours document covering all seven days
// with the same range, which keeps bookings placed relative to time.Now
// valid regardless of the weekday the test happens to run on.
func WeekdayHours(rng string) map[string]any {
	hours := make(map[string]any, 7)
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		hours[day] = rng
	}
	return hours
}

func CreateTestPaymentAccount(t *testing.T, db DBLike, studioID uuid.UUID, provider, accessToken string) uuid.UUID {
	t.Helper()

	accountID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO studio_payment_accounts (id, studio_id, provider, access_token) VALUES ($1, $2, $3, $4) ON CONFLICT (studio_id, provider) DO NOTHING",
		accountID, studioID, provider, accessToken)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx,
			"SELECT id FROM studio_payment_accounts WHERE studio_id = $1 AND provider = $2",
			studioID, provider).Scan(&accountID)
	}

	return accountID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
