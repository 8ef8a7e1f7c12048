package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/parse"
)

// GetSlots lists candidate start times for a date. The length comes from
// ?duration when given, else from ?service, else the default duration.
func (h *Handler) GetSlots(c *gin.Context) {
	date, err := parse.Date(c.Query("date"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	duration, err := h.slotDuration(c.Query("service"), c.Query("duration"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	avail, err := h.ledger.Slots(c.Request.Context(), date, duration)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSlotsResponse(avail))
}

func (h *Handler) slotDuration(service, rawDuration string) (int, error) {
	if rawDuration != "" || service == "" {
		return parse.Duration(rawDuration)
	}
	svc, err := model.LookupService(service)
	if err != nil {
		return 0, err
	}
	return svc.Duration(), nil
}
