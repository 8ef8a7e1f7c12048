package booking

import (
	"errors"
	"fmt"

	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
)

var (
	// ErrSlotConflict means the requested time overlaps a confirmed booking.
	// The caller should pick another slot; nothing was written.
	ErrSlotConflict = errors.New("time slot already booked")
	// ErrNotFound means no booking carries the requested id.
	ErrNotFound = errors.New("booking not found")
	// ErrDuplicateID means a candidate reused an existing booking id.
	ErrDuplicateID = errors.New("booking id already exists")
	// ErrPastSlot means Book was asked for a start that has already passed.
	ErrPastSlot = errors.New("cannot book a time in the past")

	ErrAlreadyCancelled  = model.ErrAlreadyCancelled
	ErrInvalidTransition = model.ErrInvalidTransition
	ErrUnknownService    = model.ErrUnknownService
	ErrInvalidInterval   = schedule.ErrInvalidInterval
	ErrClosedDay         = schedule.ErrClosedDay
	ErrOutOfHours        = schedule.ErrOutOfHours
)

// StorageError wraps a persistence failure. It is fatal to the attempted
// operation, unlike the business errors above, and the caller may retry later.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err came from the persistence layer.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
