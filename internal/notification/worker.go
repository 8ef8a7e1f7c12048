package notification

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"salon-booking-backend/internal/model"
)

// ErrDeliveryFailed marks a notification that could not be delivered. It never
// affects the booking it describes.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Sender delivers a message about a booking to one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, b model.Booking) error
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan model.Booking
	senders []Sender
	log     *zap.Logger
}

// NewWorkerPool creates a new worker pool. With no senders every dispatch is a no-op.
func NewWorkerPool(size, queueSize int, log *zap.Logger, senders ...Sender) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queueSize <= 0 {
		queueSize = size
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan model.Booking, queueSize), // Buffered channel
		senders: senders,
		log:     log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log := wp.log.With(zap.Int("worker", id))
	log.Debug("notification worker started")
	for {
		select {
		case b := <-wp.jobs:
			if err := wp.Deliver(ctx, b); err != nil {
				log.Warn("booking notification not delivered", zap.String("id", b.ID), zap.Error(err))
			}
		case <-ctx.Done():
			log.Debug("notification worker shutting down")
			return
		}
	}
}

// Dispatch queues b without blocking. It reports false when the queue is full
// and the notification was dropped.
func (wp *WorkerPool) Dispatch(b model.Booking) bool {
	if len(wp.senders) == 0 {
		return true
	}
	select {
	case wp.jobs <- b:
		return true
	default:
		wp.log.Warn("notification queue full, dropping", zap.String("id", b.ID))
		return false
	}
}

// Notify has the shape of a ledger commit hook.
func (wp *WorkerPool) Notify(b model.Booking) {
	wp.Dispatch(b)
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan model.Booking {
	return wp.jobs
}

// Deliver sends b through every sender and joins their failures.
func (wp *WorkerPool) Deliver(ctx context.Context, b model.Booking) error {
	var errs []error
	for _, s := range wp.senders {
		if err := s.Send(ctx, b); err != nil {
			errs = append(errs, fmt.Errorf("%w via %s: %w", ErrDeliveryFailed, s.Name(), err))
			continue
		}
		wp.log.Info("booking notification sent", zap.String("id", b.ID), zap.String("channel", s.Name()))
	}
	return errors.Join(errs...)
}
