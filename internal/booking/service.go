package booking

import (
	"context"
	"fmt"
	"strings"

	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
)

// Request is a booking as submitted by a client.
type Request struct {
	Date            schedule.Date
	StartMinute     int
	ServiceCode     string
	DurationMinutes int // zero means the catalog duration
	ClientName      string
	Phone           string
	Email           string
	Notes           string
}

// Book validates req against the catalog and the calendar, then inserts it.
func (l *Ledger) Book(ctx context.Context, req Request) (model.Booking, error) {
	svc, err := model.LookupService(req.ServiceCode)
	if err != nil {
		return model.Booking{}, err
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = svc.Duration()
	}

	iv, err := schedule.NewInterval(req.Date, req.StartMinute, duration)
	if err != nil {
		return model.Booking{}, err
	}
	if err := l.cal.Admits(iv); err != nil {
		return model.Booking{}, err
	}
	if start := iv.Date.At(iv.Start, l.loc); start.Before(l.now()) {
		return model.Booking{}, fmt.Errorf("%w: %s", ErrPastSlot, iv)
	}

	return l.Insert(ctx, model.Booking{
		Date:            iv.Date.String(),
		StartMinute:     iv.Start,
		DurationMinutes: iv.Duration,
		ServiceCode:     svc.Code,
		ClientName:      strings.TrimSpace(req.ClientName),
		Phone:           strings.TrimSpace(req.Phone),
		Email:           strings.TrimSpace(req.Email),
		Notes:           strings.TrimSpace(req.Notes),
	})
}

// Availability is the slot listing for one date.
type Availability struct {
	Date     schedule.Date
	Duration int
	Closed   bool
	Slots    []schedule.Slot
}

// Slots generates the slots of date for a service of duration minutes against a
// single consistent snapshot of the collection. A closed day is reported through
// Availability.Closed rather than an error.
func (l *Ledger) Slots(ctx context.Context, date schedule.Date, duration int) (Availability, error) {
	out := Availability{Date: date, Duration: duration}
	if l.cal.IsClosed(date) {
		out.Closed = true
		return out, nil
	}

	l.mu.RLock()
	bookings, err := l.load(ctx)
	l.mu.RUnlock()
	if err != nil {
		return out, err
	}

	slots, err := schedule.GenerateSlots(date, duration, l.cal, l.busyOn(bookings, date))
	if err != nil {
		return out, err
	}
	out.Slots = slots
	return out, nil
}
