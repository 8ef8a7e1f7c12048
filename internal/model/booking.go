package model

import (
	"time"

	"salon-booking-backend/internal/schedule"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Booking is a single appointment record. Records are never deleted by the
// lifecycle; cancelled and completed bookings stay for history and export.
type Booking struct {
	ID              string      `gorm:"primaryKey;size:64" json:"id" yaml:"id"`
	Date            string      `gorm:"size:10;not null;index:idx_bookings_date_start" json:"date" yaml:"date"`
	StartMinute     int         `gorm:"not null;index:idx_bookings_date_start" json:"start_minute" yaml:"start_minute"`
	DurationMinutes int         `gorm:"not null" json:"duration_minutes" yaml:"duration_minutes"`
	ServiceCode     ServiceCode `gorm:"size:32;not null" json:"service" yaml:"service"`
	ClientName      string      `gorm:"size:256;not null" json:"name" yaml:"name"`
	Phone           string      `gorm:"size:64;not null" json:"phone" yaml:"phone"`
	Email           string      `gorm:"size:256" json:"email,omitempty" yaml:"email,omitempty"`
	Notes           string      `gorm:"type:text" json:"notes,omitempty" yaml:"notes,omitempty"`
	Status          Status      `gorm:"size:16;not null;index" json:"status" yaml:"status"`
	CreatedAt       time.Time   `gorm:"not null" json:"created_at" yaml:"created_at"`
	CancelledAt     *time.Time  `json:"cancelled_at,omitempty" yaml:"cancelled_at,omitempty"`
}

// IsActive reports whether the booking takes part in overlap checks.
func (b Booking) IsActive() bool {
	return b.Status == StatusConfirmed
}

// EffectiveDuration falls back to DefaultDurationMinutes for records stored
// without a duration. A negative duration is kept so Interval rejects it.
func (b Booking) EffectiveDuration() int {
	if b.DurationMinutes == 0 {
		return DefaultDurationMinutes
	}
	return b.DurationMinutes
}

// Day parses the stored date.
func (b Booking) Day() (schedule.Date, error) {
	return schedule.ParseDate(b.Date)
}

// Interval returns the half-open time range the booking occupies.
func (b Booking) Interval() (schedule.TimeInterval, error) {
	d, err := b.Day()
	if err != nil {
		return schedule.TimeInterval{}, err
	}
	return schedule.NewInterval(d, b.StartMinute, b.EffectiveDuration())
}

// TimeLabel renders the start as HH:MM.
func (b Booking) TimeLabel() string {
	return schedule.FormatClock(b.StartMinute)
}

// Clone returns a copy that shares no pointers with b.
func (b Booking) Clone() Booking {
	if b.CancelledAt != nil {
		at := *b.CancelledAt
		b.CancelledAt = &at
	}
	return b
}

// CloneAll deep-copies a slice of bookings.
func CloneAll(bookings []Booking) []Booking {
	out := make([]Booking, len(bookings))
	for i, b := range bookings {
		out[i] = b.Clone()
	}
	return out
}
