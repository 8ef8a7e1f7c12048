package schedule

import "fmt"

// Slot is a derived, never persisted, candidate start time.
type Slot struct {
	Start     int
	Duration  int
	Available bool
}

func (s Slot) Label() string {
	return FormatClock(s.Start)
}

// GenerateSlots enumerates candidate starts on date for a service of duration minutes.
//
// Starts inside the break and starts whose service would finish after closing time are
// omitted. Every other start is emitted, flagged unavailable when it overlaps one of busy.
// busy must hold only the intervals of active bookings; intervals on other dates are ignored.
// On the weekly closed day it returns no slots and ErrClosedDay.
func GenerateSlots(date Date, duration int, cal Calendar, busy []TimeInterval) ([]Slot, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInterval, duration)
	}
	if cal.granularity <= 0 {
		return nil, ErrInvalidCalendar
	}
	if cal.IsClosed(date) {
		return nil, ErrClosedDay
	}

	opening, closing := cal.workStart*60, cal.workEnd*60
	slots := make([]Slot, 0, (closing-opening)/cal.granularity)
	for start := opening; start < closing; start += cal.granularity {
		if cal.inBreak(start) {
			continue
		}
		if start+duration > closing {
			continue
		}
		candidate := TimeInterval{Date: date, Start: start, Duration: duration}
		slots = append(slots, Slot{
			Start:     start,
			Duration:  duration,
			Available: !OverlapsAny(candidate, busy),
		})
	}
	return slots, nil
}
