package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAlreadyCancelled is returned when cancelling a booking that is already cancelled.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	// ErrInvalidTransition is returned for any status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// transitions lists the allowed moves. confirmed is the only entry state and
// both cancelled and completed are terminal.
var transitions = map[Status][]Status{
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancel moves a confirmed booking to cancelled and stamps CancelledAt.
// A second cancel leaves the record untouched and returns ErrAlreadyCancelled.
// A completed booking is also left untouched but reports ErrInvalidTransition,
// since the visit happened and calling it cancelled would be wrong.
func (b *Booking) Cancel(at time.Time) error {
	if b.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, StatusCancelled)
	}
	b.Status = StatusCancelled
	b.CancelledAt = &at
	return nil
}

// Complete moves a confirmed booking to completed.
func (b *Booking) Complete() error {
	if !CanTransition(b.Status, StatusCompleted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, StatusCompleted)
	}
	b.Status = StatusCompleted
	return nil
}
