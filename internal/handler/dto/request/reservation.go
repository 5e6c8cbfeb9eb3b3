package request

import (
	"time"

	"turf-reservation/internal/pkg/patch"
	"turf-reservation/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ResourceID uuid.UUID `json:"resource_id" binding:"required"`
	Date       string    `json:"date" binding:"required"`
	StartTime  string    `json:"start_time" binding:"required"`
	EndTime    string    `json:"end_time" binding:"required"`
	AddOns     []string  `json:"add_ons" binding:"omitempty,max=10,dive,required"`
	Note       *string   `json:"note,omitempty" binding:"omitempty,max=500"`
}

// ToInput parses the booking date as a calendar day in UTC. A blank note is dropped.
func (r CreateReservationRequest) ToInput() (commands.CreateReservationInput, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	return commands.CreateReservationInput{
		ResourceID: r.ResourceID,
		Date:       date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		AddOns:     r.AddOns,
		Note:       patch.TrimmedOrNil(r.Note),
	}, nil
}

type ListReservationsQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

type RecordPaymentRequest struct {
	Status string `json:"status" binding:"required"`
}
