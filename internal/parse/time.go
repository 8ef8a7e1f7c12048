package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
)

var (
	clockRe   = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	minutesRe = regexp.MustCompile(`(?i)^(\d+)\s*(?:m|min|mins|minutes)?$`)
)

// Date parses a YYYY-MM-DD calendar date.
func Date(raw string) (schedule.Date, error) {
	return schedule.ParseDate(strings.TrimSpace(raw))
}

// Clock converts "HH:MM" into minutes since midnight.
func Clock(raw string) (int, error) {
	m := clockRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, fmt.Errorf("%w: time %q is not HH:MM", schedule.ErrInvalidInterval, raw)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, nil
}

// Duration parses a service length in minutes. Plain numbers, a minute
// suffix ("90m", "90 min") and Go durations ("1h30m") are accepted.
// An empty value yields model.DefaultDurationMinutes.
func Duration(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.DefaultDurationMinutes, nil
	}

	minutes := -1
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			minutes = n
		}
	} else if d, err := time.ParseDuration(s); err == nil && d%time.Minute == 0 {
		minutes = int(d / time.Minute)
	}

	if minutes <= 0 || minutes >= schedule.MinutesPerDay {
		return 0, fmt.Errorf("%w: duration %q", schedule.ErrInvalidInterval, raw)
	}
	return minutes, nil
}
