package query

import (
	"context"

	"github.com/google/uuid"
)

const resourceColumns = `id, name, description, address, city, sport_type, capacity,
	price_per_hour_cents, is_available, is_active, created_at, updated_at`

func scanResource(row interface{ Scan(dest ...any) error }) (Resource, error) {
	var r Resource
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Description,
		&r.Address,
		&r.City,
		&r.SportType,
		&r.Capacity,
		&r.PricePerHourCents,
		&r.IsAvailable,
		&r.IsActive,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

const lockResource = `-- name: LockResource :one
SELECT id FROM resources WHERE id = $1 FOR UPDATE`

func (q *Queries) LockResource(ctx context.Context, db DBTX, id uuid.UUID) (uuid.UUID, error) {
	var locked uuid.UUID
	err := db.QueryRow(ctx, lockResource, id).Scan(&locked)
	return locked, err
}

const findResourceByID = `-- name: FindResourceByID :one
SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`

func (q *Queries) FindResourceByID(ctx context.Context, db DBTX, id uuid.UUID) (Resource, error) {
	return scanResource(db.QueryRow(ctx, findResourceByID, id))
}

type ListAvailableResourcesParams struct {
	SportType string
	City      string
}

// Empty filter values match every row.
const listAvailableResources = `-- name: ListAvailableResources :many
SELECT ` + resourceColumns + `
FROM resources
WHERE is_active AND is_available
  AND ($1::text = '' OR sport_type = $1)
  AND ($2::text = '' OR lower(city) = lower($2))
ORDER BY name, id`

func (q *Queries) ListAvailableResources(ctx context.Context, db DBTX, arg ListAvailableResourcesParams) ([]Resource, error) {
	rows, err := db.Query(ctx, listAvailableResources, arg.SportType, arg.City)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listResourceTimings = `-- name: ListResourceTimings :many
SELECT resource_id, day_of_week, open_time, close_time, price_per_hour_cents, is_available
FROM resource_timings
WHERE resource_id = $1
ORDER BY day_of_week`

func (q *Queries) ListResourceTimings(ctx context.Context, db DBTX, resourceID uuid.UUID) ([]ResourceTiming, error) {
	rows, err := db.Query(ctx, listResourceTimings, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ResourceTiming
	for rows.Next() {
		var i ResourceTiming
		if err := rows.Scan(
			&i.ResourceID,
			&i.DayOfWeek,
			&i.OpenTime,
			&i.CloseTime,
			&i.PricePerHourCents,
			&i.IsAvailable,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listResourceAddons = `-- name: ListResourceAddons :many
SELECT id, resource_id, name, description, is_available, additional_cost_cents
FROM resource_addons
WHERE resource_id = $1
ORDER BY name`

func (q *Queries) ListResourceAddons(ctx context.Context, db DBTX, resourceID uuid.UUID) ([]ResourceAddon, error) {
	rows, err := db.Query(ctx, listResourceAddons, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ResourceAddon
	for rows.Next() {
		var i ResourceAddon
		if err := rows.Scan(
			&i.ID,
			&i.ResourceID,
			&i.Name,
			&i.Description,
			&i.IsAvailable,
			&i.AdditionalCostCents,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
