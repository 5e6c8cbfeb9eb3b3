package readstore

import (
	"context"

	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/infra"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/infra/repository/converter"
	"turf-reservation/internal/pkg/pgconv"
	"turf-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type ResourceReadQueries interface {
	FindResourceByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Resource, error)
	ListAvailableResources(ctx context.Context, db query.DBTX, arg query.ListAvailableResourcesParams) ([]query.Resource, error)
	ListResourceTimings(ctx context.Context, db query.DBTX, resourceID uuid.UUID) ([]query.ResourceTiming, error)
	ListResourceAddons(ctx context.Context, db query.DBTX, resourceID uuid.UUID) ([]query.ResourceAddon, error)
}

type ResourceReadStore struct {
	queries ResourceReadQueries
	db      query.DBTX
}

func NewResourceReadStore(queries ResourceReadQueries, db query.DBTX) *ResourceReadStore {
	return &ResourceReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ResourceReadStore) ListAvailable(ctx context.Context, filter queries.ResourceFilter) ([]*queries.ResourceListItem, error) {
	rows, err := r.queries.ListAvailableResources(ctx, r.db, query.ListAvailableResourcesParams{
		SportType: filter.SportType,
		City:      filter.City,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list resources", err)
	}

	result := make([]*queries.ResourceListItem, len(rows))
	for i, row := range rows {
		result[i] = &queries.ResourceListItem{
			ID:                row.ID,
			Name:              row.Name,
			City:              row.City,
			Address:           row.Address,
			SportType:         row.SportType,
			Capacity:          row.Capacity,
			PricePerHourCents: row.PricePerHourCents,
		}
	}
	return result, nil
}

func (r *ResourceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ResourceView, error) {
	row, timings, addons, err := r.loadRows(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &queries.ResourceView{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		Address:           row.Address,
		City:              row.City,
		SportType:         row.SportType,
		Capacity:          row.Capacity,
		PricePerHourCents: row.PricePerHourCents,
		IsAvailable:       row.IsAvailable,
		IsActive:          row.IsActive,
		Timings:           make([]queries.WeeklyTimingView, len(timings)),
		AddOns:            make([]queries.AddOnView, len(addons)),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	for i, t := range timings {
		view.Timings[i] = queries.WeeklyTimingView{
			DayOfWeek:         int32(t.DayOfWeek),
			OpenTime:          resource.TimeOfDay(pgconv.MinutesFromPgTime(t.OpenTime)).String(),
			CloseTime:         resource.TimeOfDay(pgconv.MinutesFromPgTime(t.CloseTime)).String(),
			PricePerHourCents: pgconv.Int64PtrFromPgtype(t.PricePerHourCents),
			IsAvailable:       t.IsAvailable,
		}
	}
	for i, a := range addons {
		view.AddOns[i] = queries.AddOnView{
			Name:                a.Name,
			Description:         a.Description,
			IsAvailable:         a.IsAvailable,
			AdditionalCostCents: pgconv.Int64PtrFromPgtype(a.AdditionalCostCents),
		}
	}
	return view, nil
}

// LoadByID assembles the catalog entity the booking engine reads.
func (r *ResourceReadStore) LoadByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	row, timings, addons, err := r.loadRows(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := converter.ResourceFromInfra(row, timings, addons)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert resource", err)
	}
	return res, nil
}

func (r *ResourceReadStore) loadRows(ctx context.Context, id uuid.UUID) (query.Resource, []query.ResourceTiming, []query.ResourceAddon, error) {
	row, err := r.queries.FindResourceByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return query.Resource{}, nil, nil, infra.WrapRepoErr("resource not found", err, infra.KindNotFound)
		}
		return query.Resource{}, nil, nil, infra.WrapRepoErr("failed to find resource by ID", err)
	}

	timings, err := r.queries.ListResourceTimings(ctx, r.db, id)
	if err != nil {
		return query.Resource{}, nil, nil, infra.WrapRepoErr("failed to list resource timings", err)
	}

	addons, err := r.queries.ListResourceAddons(ctx, r.db, id)
	if err != nil {
		return query.Resource{}, nil, nil, infra.WrapRepoErr("failed to list resource add-ons", err)
	}

	return row, timings, addons, nil
}
