package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"salon-booking-backend/internal/model"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for formats other than json and yaml.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "", "json", "yaml" and "yml". The empty string means JSON.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// FileName returns the date-stamped document name, e.g. appointments-2024-01-10.json.
func FileName(now time.Time, f Format) string {
	return fmt.Sprintf("appointments-%s.%s", now.Format("2006-01-02"), f)
}

// Record is one exported booking. It carries the stored fields plus the
// display values a human reader needs.
type Record struct {
	ID              string     `json:"id" yaml:"id"`
	Date            string     `json:"date" yaml:"date"`
	Time            string     `json:"time" yaml:"time"`
	DurationMinutes int        `json:"duration" yaml:"duration"`
	Service         string     `json:"service" yaml:"service"`
	ServiceName     string     `json:"service_name" yaml:"service_name"`
	Name            string     `json:"name" yaml:"name"`
	Phone           string     `json:"phone" yaml:"phone"`
	Email           string     `json:"email,omitempty" yaml:"email,omitempty"`
	Notes           string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Status          string     `json:"status" yaml:"status"`
	CreatedAt       time.Time  `json:"created_at" yaml:"created_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty" yaml:"cancelled_at,omitempty"`
}

// NewRecord converts a stored booking.
func NewRecord(b model.Booking) Record {
	return Record{
		ID:              b.ID,
		Date:            b.Date,
		Time:            b.TimeLabel(),
		DurationMinutes: b.EffectiveDuration(),
		Service:         string(b.ServiceCode),
		ServiceName:     model.ServiceName(b.ServiceCode),
		Name:            b.ClientName,
		Phone:           b.Phone,
		Email:           b.Email,
		Notes:           b.Notes,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		CancelledAt:     b.CancelledAt,
	}
}

// Render encodes every booking, cancelled and completed included, in order.
// An empty collection renders as an empty list.
func Render(bookings []model.Booking, f Format) ([]byte, error) {
	records := make([]Record, 0, len(bookings))
	for _, b := range bookings {
		records = append(records, NewRecord(b))
	}

	switch f {
	case FormatJSON:
		return json.MarshalIndent(records, "", "  ")
	case FormatYAML:
		return yaml.Marshal(records)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}
