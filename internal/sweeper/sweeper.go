package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Completer moves finished bookings to completed. booking.Ledger satisfies it.
type Completer interface {
	CompletePast(ctx context.Context, now time.Time) (int, error)
}

// Service periodically completes bookings whose time has passed.
type Service struct {
	ledger   Completer
	interval time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewService creates a sweeper running every interval.
func NewService(ledger Completer, interval time.Duration, log *zap.Logger) *Service {
	return &Service{
		ledger:   ledger,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("starting sweeper", zap.Duration("interval", s.interval))

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper shutting down")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// SweepOnce performs a single completion pass and reports how many bookings moved.
// Failures are logged and retried on the next tick.
func (s *Service) SweepOnce(ctx context.Context) int {
	n, err := s.ledger.CompletePast(ctx, s.now())
	if err != nil {
		s.log.Error("sweep failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.log.Info("completed past bookings", zap.Int("count", n))
	}
	return n
}
