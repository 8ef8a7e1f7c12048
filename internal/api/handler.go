package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"salon-booking-backend/internal/booking"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	ledger  *booking.Ledger
	webpush *webpush.Options
	log     *zap.Logger
	now     func() time.Time
}

// NewHandler creates a new API handler. webpushOptions may be nil when push is not configured.
func NewHandler(ledger *booking.Ledger, webpushOptions *webpush.Options, log *zap.Logger) *Handler {
	return &Handler{
		ledger:  ledger,
		webpush: webpushOptions,
		log:     log,
		now:     time.Now,
	}
}
