package store

import (
	"context"
	"sync"

	"salon-booking-backend/internal/model"
)

// MemoryStore keeps the collection in process memory. Load and Save copy, so
// callers never share records with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings []model.Booking
}

// NewMemoryStore returns a store seeded with bookings.
func NewMemoryStore(bookings ...model.Booking) *MemoryStore {
	return &MemoryStore{bookings: model.CloneAll(bookings)}
}

func (s *MemoryStore) Load(_ context.Context) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneAll(s.bookings), nil
}

func (s *MemoryStore) Save(_ context.Context, bookings []model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = model.CloneAll(bookings)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = nil
	return nil
}
