package request

import (
	"strings"
	"time"

	"turf-reservation/internal/usecase/queries"
)

type ListResourcesQuery struct {
	SportType string `form:"sport_type" binding:"omitempty,max=50"`
	City      string `form:"city" binding:"omitempty,max=100"`
}

func (q ListResourcesQuery) ToFilter() queries.ResourceFilter {
	return queries.ResourceFilter{
		SportType: strings.TrimSpace(q.SportType),
		City:      strings.TrimSpace(q.City),
	}
}

type SlotsQuery struct {
	Date string `form:"date" binding:"required"`
}

func (q SlotsQuery) ParseDate() (time.Time, error) {
	return time.Parse(time.DateOnly, q.Date)
}
