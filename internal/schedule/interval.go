package schedule

import (
	"fmt"
	"time"
)

// MinutesPerDay bounds every minute-of-day value.
const MinutesPerDay = 24 * 60

const dateLayout = "2006-01-02"

// Date is a calendar day in the salon's single local zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes out-of-range values the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad date %q", ErrInvalidInterval, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Weekday() time.Weekday {
	return d.At(0, time.UTC).Weekday()
}

// At returns the instant minute minutes after midnight of d in loc.
func (d Date) At(minute int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, minute, 0, 0, loc)
}

// TimeInterval is the half-open range [Start, Start+Duration) in minutes of Date.
type TimeInterval struct {
	Date     Date
	Start    int
	Duration int
}

// NewInterval validates and builds an interval. Intervals never cross midnight.
func NewInterval(date Date, start, duration int) (TimeInterval, error) {
	if date.IsZero() {
		return TimeInterval{}, fmt.Errorf("%w: missing date", ErrInvalidInterval)
	}
	if duration <= 0 {
		return TimeInterval{}, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInterval, duration)
	}
	if start < 0 || start >= MinutesPerDay {
		return TimeInterval{}, fmt.Errorf("%w: start minute %d out of range", ErrInvalidInterval, start)
	}
	if start+duration > MinutesPerDay {
		return TimeInterval{}, fmt.Errorf("%w: %s+%dmin runs past midnight", ErrInvalidInterval, FormatClock(start), duration)
	}
	return TimeInterval{Date: date, Start: start, Duration: duration}, nil
}

// End is the exclusive end minute.
func (i TimeInterval) End() int {
	return i.Start + i.Duration
}

func (i TimeInterval) String() string {
	return fmt.Sprintf("%s %s-%s", i.Date, FormatClock(i.Start), FormatClock(i.End()))
}

// Overlaps reports whether a and b intersect. Touching endpoints do not overlap and
// zero-length intervals overlap nothing.
func Overlaps(a, b TimeInterval) bool {
	if a.Date != b.Date {
		return false
	}
	if a.Duration <= 0 || b.Duration <= 0 {
		return false
	}
	return a.Start < b.End() && b.Start < a.End()
}

// OverlapsAny reports whether i overlaps at least one of busy.
func OverlapsAny(i TimeInterval, busy []TimeInterval) bool {
	for _, b := range busy {
		if Overlaps(i, b) {
			return true
		}
	}
	return false
}

// FormatClock renders a minute of day as HH:MM.
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
