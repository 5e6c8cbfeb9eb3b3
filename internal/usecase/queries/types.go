package queries

import (
	"time"

	"github.com/google/uuid"
)

// ReservationView is the full read model of one reservation.
type ReservationView struct {
	ID            uuid.UUID `json:"id"`
	ResourceID    uuid.UUID `json:"resource_id"`
	ResourceName  string    `json:"resource_name"`
	UserID        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	Date          time.Time `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	DurationHours int32     `json:"duration_hours"`
	PriceCents    int64     `json:"price_cents"`
	AddOns        []string  `json:"add_ons"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReservationListItem struct {
	ID            uuid.UUID `json:"id"`
	ResourceID    uuid.UUID `json:"resource_id"`
	ResourceName  string    `json:"resource_name"`
	Date          time.Time `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	DurationHours int32     `json:"duration_hours"`
	PriceCents    int64     `json:"price_cents"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResourceListItem is a catalog row without schedule details.
type ResourceListItem struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	City              string    `json:"city"`
	Address           string    `json:"address"`
	SportType         string    `json:"sport_type"`
	Capacity          int32     `json:"capacity"`
	PricePerHourCents int64     `json:"price_per_hour_cents"`
}

type ResourceView struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	Address           string             `json:"address"`
	City              string             `json:"city"`
	SportType         string             `json:"sport_type"`
	Capacity          int32              `json:"capacity"`
	PricePerHourCents int64              `json:"price_per_hour_cents"`
	IsAvailable       bool               `json:"is_available"`
	IsActive          bool               `json:"is_active"`
	Timings           []WeeklyTimingView `json:"timings"`
	AddOns            []AddOnView        `json:"add_ons"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type WeeklyTimingView struct {
	DayOfWeek         int32  `json:"day_of_week"`
	OpenTime          string `json:"open_time"`
	CloseTime         string `json:"close_time"`
	PricePerHourCents *int64 `json:"price_per_hour_cents,omitempty"`
	IsAvailable       bool   `json:"is_available"`
}

type AddOnView struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	IsAvailable         bool   `json:"is_available"`
	AdditionalCostCents *int64 `json:"additional_cost_cents,omitempty"`
}

// SlotView is one bookable candidate window.
type SlotView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ResourceFilter struct {
	SportType string
	City      string
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
