package schedule

import (
	"fmt"
	"time"
)

// ClosedWeekday is the weekly day off. It is fixed, not part of Calendar.
const ClosedWeekday = time.Sunday

// Calendar describes the working window, the lunch break and slot granularity.
// The zero value is not usable; build one with NewCalendar.
type Calendar struct {
	workStart   int
	workEnd     int
	breakStart  int
	breakEnd    int
	granularity int
}

// NewCalendar validates hour bounds and returns an immutable Calendar.
func NewCalendar(workStart, workEnd, breakStart, breakEnd, granularityMinutes int) (Calendar, error) {
	switch {
	case workStart < 0 || workEnd > 24 || workStart >= workEnd:
		return Calendar{}, fmt.Errorf("%w: working hours %d-%d", ErrInvalidCalendar, workStart, workEnd)
	case breakStart < workStart || breakStart > breakEnd || breakEnd > workEnd:
		return Calendar{}, fmt.Errorf("%w: break %d-%d outside working hours %d-%d", ErrInvalidCalendar, breakStart, breakEnd, workStart, workEnd)
	case granularityMinutes <= 0:
		return Calendar{}, fmt.Errorf("%w: slot granularity must be positive, got %d", ErrInvalidCalendar, granularityMinutes)
	}
	return Calendar{
		workStart:   workStart,
		workEnd:     workEnd,
		breakStart:  breakStart,
		breakEnd:    breakEnd,
		granularity: granularityMinutes,
	}, nil
}

// DefaultCalendar is 09:00-21:00 with lunch 13:00-14:00 and 30 minute slots.
func DefaultCalendar() Calendar {
	return Calendar{workStart: 9, workEnd: 21, breakStart: 13, breakEnd: 14, granularity: 30}
}

func (c Calendar) WorkStart() int   { return c.workStart }
func (c Calendar) WorkEnd() int     { return c.workEnd }
func (c Calendar) BreakStart() int  { return c.breakStart }
func (c Calendar) BreakEnd() int    { return c.breakEnd }
func (c Calendar) Granularity() int { return c.granularity }

// IsClosed reports whether d is the weekly day off.
func (c Calendar) IsClosed(d Date) bool {
	return d.Weekday() == ClosedWeekday
}

func (c Calendar) inBreak(minute int) bool {
	return minute >= c.breakStart*60 && minute < c.breakEnd*60
}

// Admits checks that i could have been offered by GenerateSlots: an open day, a start
// inside working hours but not inside the break, and an end no later than closing time.
func (c Calendar) Admits(i TimeInterval) error {
	if c.IsClosed(i.Date) {
		return fmt.Errorf("%w: %s", ErrClosedDay, i.Date)
	}
	if i.Start < c.workStart*60 || i.End() > c.workEnd*60 {
		return fmt.Errorf("%w: %s not within %s-%s", ErrOutOfHours, i, FormatClock(c.workStart*60), FormatClock(c.workEnd*60))
	}
	if c.inBreak(i.Start) {
		return fmt.Errorf("%w: %s starts during the break", ErrOutOfHours, i)
	}
	return nil
}
