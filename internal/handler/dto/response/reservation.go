package response

import (
	"time"

	"turf-reservation/internal/domain/reservation"
	"turf-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID            uuid.UUID `json:"id"`
	ResourceID    uuid.UUID `json:"resource_id"`
	ResourceName  string    `json:"resource_name"`
	UserID        uuid.UUID `json:"user_id"`
	UserEmail     string    `json:"user_email"`
	Date          string    `json:"date" copier:"-"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	DurationHours int32     `json:"duration_hours"`
	PriceCents    int64     `json:"price_cents"`
	Price         string    `json:"price"`
	AddOns        []string  `json:"add_ons"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReservationListResponse struct {
	ID            uuid.UUID `json:"id"`
	ResourceID    uuid.UUID `json:"resource_id"`
	ResourceName  string    `json:"resource_name"`
	Date          string    `json:"date" copier:"-"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	DurationHours int32     `json:"duration_hours"`
	PriceCents    int64     `json:"price_cents"`
	Price         string    `json:"price"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReservationPageResponse struct {
	Items      []*ReservationListResponse `json:"items"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}

func FromReservationView(v *queries.ReservationView) (*ReservationResponse, error) {
	resp := &ReservationResponse{}
	if err := copier.Copy(resp, v); err != nil {
		return nil, err
	}
	resp.Date = v.Date.Format(time.DateOnly)
	resp.Price = reservation.NewMoney(v.PriceCents).String()
	if resp.AddOns == nil {
		resp.AddOns = []string{}
	}
	return resp, nil
}

func FromReservationListItem(v *queries.ReservationListItem) (*ReservationListResponse, error) {
	resp := &ReservationListResponse{}
	if err := copier.Copy(resp, v); err != nil {
		return nil, err
	}
	resp.Date = v.Date.Format(time.DateOnly)
	resp.Price = reservation.NewMoney(v.PriceCents).String()
	return resp, nil
}

func FromReservationPage(items []*queries.ReservationListItem, next *queries.Cursor) (*ReservationPageResponse, error) {
	page := &ReservationPageResponse{Items: make([]*ReservationListResponse, 0, len(items))}
	for _, item := range items {
		resp, err := FromReservationListItem(item)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, resp)
	}
	if next != nil {
		page.NextCursor = next.After
	}
	return page, nil
}
