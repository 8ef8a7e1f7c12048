package schedule

import "errors"

var (
	// ErrInvalidInterval is returned for a non-positive duration or a time value outside the day.
	ErrInvalidInterval = errors.New("invalid time interval")
	// ErrInvalidCalendar is returned when working hours, break or granularity are inconsistent.
	ErrInvalidCalendar = errors.New("invalid calendar configuration")
	// ErrClosedDay signals that the requested date is the weekly day off.
	ErrClosedDay = errors.New("closed on this day")
	// ErrOutOfHours is returned when an interval does not fit the working window.
	ErrOutOfHours = errors.New("outside working hours")
)
