package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"salon-booking-backend/internal/model"
)

// DefaultRedisKey holds the whole collection as one JSON array.
const DefaultRedisKey = "salon:appointments"

// redisStore keeps the collection under a single key, so every Save is atomic.
type redisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore creates a Redis-backed store. An empty key selects DefaultRedisKey.
func NewRedisStore(client redis.UniversalClient, key string) Store {
	if key == "" {
		key = DefaultRedisKey
	}
	return &redisStore{client: client, key: key}
}

func (s *redisStore) Load(ctx context.Context) ([]model.Booking, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	var bookings []model.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	return bookings, nil
}

func (s *redisStore) Save(ctx context.Context, bookings []model.Booking) error {
	if bookings == nil {
		bookings = []model.Booking{}
	}
	raw, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to encode bookings: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.key, err)
	}
	return nil
}
