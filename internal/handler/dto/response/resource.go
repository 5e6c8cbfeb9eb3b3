package response

import (
	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ResourceListResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	City              string    `json:"city"`
	Address           string    `json:"address"`
	SportType         string    `json:"sport_type"`
	Capacity          int32     `json:"capacity"`
	PricePerHourCents int64     `json:"price_per_hour_cents"`
	PricePerHour      string    `json:"price_per_hour"`
}

type ResourceResponse struct {
	ID                uuid.UUID                  `json:"id"`
	Name              string                     `json:"name"`
	Description       string                     `json:"description"`
	Address           string                     `json:"address"`
	City              string                     `json:"city"`
	SportType         string                     `json:"sport_type"`
	Capacity          int32                      `json:"capacity"`
	PricePerHourCents int64                      `json:"price_per_hour_cents"`
	PricePerHour      string                     `json:"price_per_hour"`
	IsAvailable       bool                       `json:"is_available"`
	Timings           []queries.WeeklyTimingView `json:"timings"`
	AddOns            []queries.AddOnView        `json:"add_ons"`
}

type SlotsResponse struct {
	ResourceID uuid.UUID          `json:"resource_id"`
	Date       string             `json:"date"`
	Slots      []queries.SlotView `json:"slots"`
}

func FromResourceListItems(items []*queries.ResourceListItem) ([]*ResourceListResponse, error) {
	out := make([]*ResourceListResponse, 0, len(items))
	for _, item := range items {
		resp := &ResourceListResponse{}
		if err := copier.Copy(resp, item); err != nil {
			return nil, err
		}
		resp.PricePerHour = reservation.NewMoney(item.PricePerHourCents).String()
		out = append(out, resp)
	}
	return out, nil
}

func FromResourceView(v *queries.ResourceView) (*ResourceResponse, error) {
	resp := &ResourceResponse{}
	if err := copier.Copy(resp, v); err != nil {
		return nil, err
	}
	resp.PricePerHour = reservation.NewMoney(v.PricePerHourCents).String()
	if resp.Timings == nil {
		resp.Timings = []queries.WeeklyTimingView{}
	}
	if resp.AddOns == nil {
		resp.AddOns = []queries.AddOnView{}
	}
	return resp, nil
}
