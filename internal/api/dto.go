package api

import (
	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/export"
	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
)

// CreateBookingRequest is the body of POST /api/bookings.
type CreateBookingRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Service  string `json:"service" binding:"required"`
	Duration int    `json:"duration" binding:"omitempty,min=1"`
	Name     string `json:"name" binding:"required,max=256"`
	Phone    string `json:"phone" binding:"required,max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
	Notes    string `json:"notes" binding:"max=2000"`
}

// BookingResponse is the public shape of a booking.
type BookingResponse = export.Record

// NewBookingResponse converts a stored booking.
func NewBookingResponse(b model.Booking) BookingResponse {
	return export.NewRecord(b)
}

func newBookingResponses(bookings []model.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, NewBookingResponse(b))
	}
	return out
}

// SlotResponse is one candidate start time.
type SlotResponse struct {
	Time        string `json:"time"`
	StartMinute int    `json:"start_minute"`
	Duration    int    `json:"duration"`
	Available   bool   `json:"available"`
}

// SlotsResponse is the body of GET /api/slots.
type SlotsResponse struct {
	Date     string         `json:"date"`
	Duration int            `json:"duration"`
	Closed   bool           `json:"closed"`
	Slots    []SlotResponse `json:"slots"`
}

// NewSlotsResponse converts an availability listing.
func NewSlotsResponse(a booking.Availability) SlotsResponse {
	out := SlotsResponse{
		Date:     a.Date.String(),
		Duration: a.Duration,
		Closed:   a.Closed,
		Slots:    make([]SlotResponse, 0, len(a.Slots)),
	}
	for _, s := range a.Slots {
		out.Slots = append(out.Slots, newSlotResponse(s))
	}
	return out
}

func newSlotResponse(s schedule.Slot) SlotResponse {
	return SlotResponse{
		Time:        s.Label(),
		StartMinute: s.Start,
		Duration:    s.Duration,
		Available:   s.Available,
	}
}
