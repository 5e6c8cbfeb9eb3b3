package reservation

import (
	"errors"
	"fmt"
)

// Base kinds. Every specific error below wraps exactly one of them.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotAvailable      = errors.New("not available")
	ErrConflict          = errors.New("window overlaps an existing reservation")
	ErrIllegalTransition = errors.New("illegal status transition")
)

var (
	ErrInvalidWindow        = fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	ErrWindowInPast         = fmt.Errorf("%w: window starts in the past", ErrInvalidInput)
	ErrUnknownAddOn         = fmt.Errorf("%w: unknown add-on", ErrInvalidInput)
	ErrInvalidStatus        = fmt.Errorf("%w: invalid reservation status", ErrInvalidInput)
	ErrInvalidPaymentStatus = fmt.Errorf("%w: invalid payment status", ErrInvalidInput)
	ErrNoteTooLong          = fmt.Errorf("%w: note is too long (max 500 characters)", ErrInvalidInput)

	ErrResourceNotBookable = fmt.Errorf("%w: resource is inactive or unavailable", ErrNotAvailable)
	ErrClosedOnDate        = fmt.Errorf("%w: resource is closed on that date", ErrNotAvailable)
	ErrOutsideOpenHours    = fmt.Errorf("%w: window is outside opening hours", ErrNotAvailable)
	ErrNotSlotAligned      = fmt.Errorf("%w: window is not aligned to a bookable slot", ErrNotAvailable)

	ErrAlreadyCancelled      = fmt.Errorf("%w: reservation is already cancelled", ErrIllegalTransition)
	ErrCannotCancelCompleted = fmt.Errorf("%w: cannot cancel completed reservation", ErrIllegalTransition)
	ErrNotPending            = fmt.Errorf("%w: only pending reservations can be confirmed", ErrIllegalTransition)
	ErrNotConfirmed          = fmt.Errorf("%w: only confirmed reservations can be completed", ErrIllegalTransition)
)
