package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/parse"
	"salon-booking-backend/internal/schedule"
)

// ListBookings returns active bookings in chronological order, optionally for one ?date.
func (h *Handler) ListBookings(c *gin.Context) {
	var date *schedule.Date
	if raw := c.Query("date"); raw != "" {
		d, err := parse.Date(raw)
		if err != nil {
			h.writeError(c, err)
			return
		}
		date = &d
	}

	bookings, err := h.ledger.ListActive(c.Request.Context(), date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": newBookingResponses(bookings)})
}

// CreateBooking validates the request and books it.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	date, err := parse.Date(req.Date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	start, err := parse.Clock(req.Time)
	if err != nil {
		h.writeError(c, err)
		return
	}

	b, err := h.ledger.Book(c.Request.Context(), booking.Request{
		Date:            date,
		StartMinute:     start,
		ServiceCode:     req.Service,
		DurationMinutes: req.Duration,
		ClientName:      req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Notes:           req.Notes,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// CancelBooking cancels the booking named by :id. Cancelling a booking that is
// already cancelled or completed answers 409 with the unchanged booking.
func (h *Handler) CancelBooking(c *gin.Context) {
	b, err := h.ledger.Cancel(c.Request.Context(), c.Param("id"))
	if errors.Is(err, booking.ErrAlreadyCancelled) || errors.Is(err, booking.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{
			"error":             err.Error(),
			"already_cancelled": errors.Is(err, booking.ErrAlreadyCancelled),
			"booking":           NewBookingResponse(b),
		})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// CompleteBooking marks the booking named by :id as completed.
func (h *Handler) CompleteBooking(c *gin.Context) {
	b, err := h.ledger.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ClearBookings deletes every booking. It refuses to run without ?confirm=true.
func (h *Handler) ClearBookings(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required: repeat with ?confirm=true"})
		return
	}
	if err := h.ledger.Clear(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}
