package query

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	Role               string
	IsActive           bool
	RefreshToken       pgtype.Text
	RefreshTokenExpiry pgtype.Timestamptz
	LastLogin          pgtype.Timestamptz
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Resource struct {
	ID                uuid.UUID
	Name              string
	Description       string
	Address           string
	City              string
	SportType         string
	Capacity          int32
	PricePerHourCents int64
	IsAvailable       bool
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ResourceTiming struct {
	ResourceID        uuid.UUID
	DayOfWeek         int16
	OpenTime          pgtype.Time
	CloseTime         pgtype.Time
	PricePerHourCents pgtype.Int8
	IsAvailable       bool
}

type ResourceAddon struct {
	ID                  uuid.UUID
	ResourceID          uuid.UUID
	Name                string
	Description         string
	IsAvailable         bool
	AdditionalCostCents pgtype.Int8
}

type Reservation struct {
	ID            uuid.UUID
	ResourceID    uuid.UUID
	UserID        uuid.UUID
	BookingDate   pgtype.Date
	StartTime     pgtype.Time
	EndTime       pgtype.Time
	DurationHours int32
	PriceCents    int64
	AddOns        []string
	Status        string
	PaymentStatus string
	Note          pgtype.Text
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type IdempotencyKey struct {
	Key                 uuid.UUID
	UserID              uuid.UUID
	Endpoint            string
	RequestHash         string
	Status              string
	ResultReservationID pgtype.UUID
	ExpiresAt           time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type NotificationJob struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Attempts  int32
	Status    string
	LastError pgtype.Text
	CreatedAt time.Time
	UpdatedAt time.Time
}
