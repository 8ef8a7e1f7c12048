package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking-backend/internal/model"
)

// GetServices returns the service catalog.
func (h *Handler) GetServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": model.Services()})
}
