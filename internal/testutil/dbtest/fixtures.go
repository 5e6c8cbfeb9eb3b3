//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"turf-reservation/internal/pkg/password"
	"turf-reservation/internal/testutil/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const DefaultPassword = "password123"

// CreateTestUser inserts an active user whose password is DefaultPassword.
func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	hash, err := password.HashPassword(DefaultPassword)
	require.NoError(t, err)

	userID := uuid.New()
	ctx := context.Background()
	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, name, password_hash, role, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT (email) DO NOTHING",
		userID, email, "Test User", hash, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		require.NoError(t, db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID))
	}

	return userID
}

// CreateTestResource persists the builder's resource with its timings and add-ons.
func CreateTestResource(t *testing.T, db DBLike, b *builder.ResourceBuilder) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		`INSERT INTO resources (id, name, city, sport_type, capacity, price_per_hour_cents, is_available, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Name, b.City, b.SportType, b.Capacity, b.PricePerHourCents, b.IsAvailable, b.IsActive)
	require.NoError(t, err)

	for _, timing := range b.Timings {
		_, err = db.Exec(ctx,
			`INSERT INTO resource_timings (resource_id, day_of_week, open_time, close_time, price_per_hour_cents, is_available)
			 VALUES ($1, $2, $3::time, $4::time, $5, $6)`,
			b.ID, int16(timing.Weekday), timing.Open, timing.Close, timing.RateCents, timing.IsAvailable)
		require.NoError(t, err)
	}

	for _, addOn := range b.AddOns {
		_, err = db.Exec(ctx,
			`INSERT INTO resource_addons (id, resource_id, name, description, is_available, additional_cost_cents)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), b.ID, addOn.Name, addOn.Description, addOn.IsAvailable, addOn.CostCents)
		require.NoError(t, err)
	}

	return b.ID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('atlas_schema_revisions')`)
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
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
