package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking-backend/internal/export"
)

// ExportBookings downloads the full collection, cancelled bookings included,
// as JSON or ?format=yaml.
func (h *Handler) ExportBookings(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	bookings, err := h.ledger.All(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	body, err := export.Render(bookings, format)
	if err != nil {
		h.writeError(c, err)
		return
	}

	name := export.FileName(h.now().In(h.ledger.Location()), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, format.ContentType(), body)
}
