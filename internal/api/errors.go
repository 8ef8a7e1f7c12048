package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/export"
)

// writeError maps ledger and boundary errors onto HTTP responses.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case booking.IsStorageError(err):
		h.log.Error("storage failure", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage unavailable, try again later"})
	case errors.Is(err, booking.ErrClosedDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "closed": true})
	case errors.Is(err, booking.ErrInvalidInterval),
		errors.Is(err, booking.ErrUnknownService),
		errors.Is(err, booking.ErrOutOfHours),
		errors.Is(err, booking.ErrPastSlot),
		errors.Is(err, export.ErrUnknownFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "hint": "choose another time"})
	case errors.Is(err, booking.ErrDuplicateID), errors.Is(err, booking.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "already_cancelled": true})
	case errors.Is(err, booking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
