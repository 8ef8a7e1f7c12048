package notification

import (
	"fmt"
	"strings"
	"time"

	"salon-booking-backend/internal/model"
)

// FormatMessage renders the owner-facing summary of a new booking.
// Email and notes are omitted when empty.
func FormatMessage(b model.Booking, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("📅 New manicure appointment!\n\n")
	fmt.Fprintf(&sb, "👤 Client: %s\n", b.ClientName)
	fmt.Fprintf(&sb, "📞 Phone: %s\n", b.Phone)
	if b.Email != "" {
		fmt.Fprintf(&sb, "📧 Email: %s\n", b.Email)
	}
	fmt.Fprintf(&sb, "💅 Service: %s\n", model.ServiceName(b.ServiceCode))
	fmt.Fprintf(&sb, "📅 Date: %s\n", formatDate(b))
	fmt.Fprintf(&sb, "⏰ Time: %s (%d min)\n", b.TimeLabel(), b.EffectiveDuration())
	if b.Notes != "" {
		fmt.Fprintf(&sb, "💭 Notes: %s\n", b.Notes)
	}
	fmt.Fprintf(&sb, "🆔 Booking ID: %s\n", b.ID)
	fmt.Fprintf(&sb, "⏱ Created: %s", b.CreatedAt.In(loc).Format("2006-01-02 15:04:05"))
	return sb.String()
}

// Title is the one-line form used for push notifications.
func Title(b model.Booking) string {
	return fmt.Sprintf("%s, %s %s", model.ServiceName(b.ServiceCode), b.Date, b.TimeLabel())
}

func formatDate(b model.Booking) string {
	d, err := b.Day()
	if err != nil {
		return b.Date
	}
	return fmt.Sprintf("%s, %s", d.Weekday(), d)
}
