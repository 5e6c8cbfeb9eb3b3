package reservation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"turf-reservation/internal/domain/resource"

	"github.com/google/uuid"
)

const MaxNoteLength = 500

// Window is the half-open interval [start, end) on one calendar day.
type Window struct {
	date  time.Time
	start resource.TimeOfDay
	end   resource.TimeOfDay
}

func NewWindow(date time.Time, start, end resource.TimeOfDay) (Window, error) {
	if start < 0 || end > resource.EndOfDay || end <= start {
		return Window{}, ErrInvalidWindow
	}
	return Window{date: truncateToDate(date), start: start, end: end}, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (w Window) Date() time.Time           { return w.date }
func (w Window) Start() resource.TimeOfDay { return w.start }
func (w Window) End() resource.TimeOfDay   { return w.end }
func (w Window) Weekday() time.Weekday     { return w.date.Weekday() }
func (w Window) StartAt() time.Time        { return w.start.On(w.date) }
func (w Window) EndAt() time.Time          { return w.end.On(w.date) }

func (w Window) Duration() time.Duration {
	return time.Duration(w.end-w.start) * time.Minute
}

// BilledHours rounds the duration up to whole hours.
func (w Window) BilledHours() int {
	minutes := int(w.end - w.start)
	return (minutes + 59) / 60
}

// SameDay reports whether both windows fall on the same calendar date.
func (w Window) SameDay(other Window) bool {
	return w.date.Equal(other.date)
}

func (w Window) String() string {
	return fmt.Sprintf("%s %s-%s", w.date.Format(time.DateOnly), w.start, w.end)
}

// Money is an amount in minor currency units.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Times(n int64) Money {
	return Money{cents: m.cents * n}
}

// String renders the amount as a decimal with two fraction digits.
func (m Money) String() string {
	sign := ""
	c := m.cents
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

type Note struct {
	value string
}

func NewNote(value string) (Note, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > MaxNoteLength {
		return Note{}, ErrNoteTooLong
	}
	return Note{value: value}, nil
}

func (n Note) String() string {
	return n.value
}

func (n Note) IsEmpty() bool {
	return n.value == ""
}

// Occupancy is the slice of a reservation the conflict detector needs.
type Occupancy struct {
	ReservationID uuid.UUID
	ResourceID    uuid.UUID
	Window        Window
	Status        Status
}
