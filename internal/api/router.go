package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"salon-booking-backend/config"
	"salon-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	r.Use(cors.New(corsConfig))

	// Initialize middleware
	limiter := mw.NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, 10*time.Minute)
	responses := mw.NewResponseCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	caching := responses.Handler()

	// API group
	api := r.Group("/api")
	api.Use(mw.RateLimiter(limiter), responses.FlushOnWrite())
	{
		api.GET("/services", caching, handler.GetServices)
		api.GET("/slots", caching, handler.GetSlots)

		api.GET("/bookings", handler.ListBookings)
		api.POST("/bookings", handler.CreateBooking)
		api.DELETE("/bookings", handler.ClearBookings)
		api.POST("/bookings/:id/cancel", handler.CancelBooking)
		api.POST("/bookings/:id/complete", handler.CompleteBooking)

		api.GET("/export", handler.ExportBookings)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
