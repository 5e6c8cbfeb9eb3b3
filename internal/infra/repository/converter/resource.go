package converter

import (
	"time"

	"turf-reservation/internal/domain/resource"
	"turf-reservation/internal/infra/query"
	"turf-reservation/internal/pkg/pgconv"
)

func ResourceFromInfra(row query.Resource, timings []query.ResourceTiming, addons []query.ResourceAddon) (*resource.Resource, error) {
	weekly := make([]resource.WeeklyTiming, 0, len(timings))
	for _, t := range timings {
		openAt, err := resource.TimeOfDayFromMinutes(pgconv.MinutesFromPgTime(t.OpenTime))
		if err != nil {
			return nil, err
		}
		closeAt, err := resource.TimeOfDayFromMinutes(pgconv.MinutesFromPgTime(t.CloseTime))
		if err != nil {
			return nil, err
		}
		timing, err := resource.NewWeeklyTiming(
			time.Weekday(t.DayOfWeek),
			openAt,
			closeAt,
			pgconv.Int64PtrFromPgtype(t.PricePerHourCents),
			t.IsAvailable,
		)
		if err != nil {
			return nil, err
		}
		weekly = append(weekly, timing)
	}

	extras := make([]resource.AddOn, 0, len(addons))
	for _, a := range addons {
		addOn, err := resource.NewAddOn(a.Name, a.Description, a.IsAvailable, pgconv.Int64PtrFromPgtype(a.AdditionalCostCents))
		if err != nil {
			return nil, err
		}
		extras = append(extras, addOn)
	}

	return resource.NewResource(resource.Params{
		ID:                row.ID,
		Name:              row.Name,
		Description:       row.Description,
		Address:           row.Address,
		City:              row.City,
		SportType:         row.SportType,
		Capacity:          int(row.Capacity),
		PricePerHourCents: row.PricePerHourCents,
		IsAvailable:       row.IsAvailable,
		IsActive:          row.IsActive,
		Timings:           weekly,
		AddOns:            extras,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	})
}
