package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"salon-booking-backend/internal/model"
)

// Store persists the full booking collection.
type Store interface {
	// Load returns every booking, including cancelled and completed ones.
	Load(ctx context.Context) ([]model.Booking, error)
	// Save replaces the stored collection with bookings.
	Save(ctx context.Context, bookings []model.Booking) error
	// Clear removes every booking.
	Clear(ctx context.Context) error
}

// ErrOverlap is returned by Save when the database itself rejects two
// overlapping confirmed bookings.
var ErrOverlap = errors.New("database rejected overlapping bookings")

// exclusionViolation is the postgres SQLSTATE for a violated EXCLUDE constraint.
const exclusionViolation = "23P01"

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Load(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).Order("date, start_minute, id").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return bookings, nil
}

// Save writes the collection transactionally: rows missing from bookings are
// removed and the rest are upserted by primary key.
func (s *gormStore) Save(ctx context.Context, bookings []model.Booking) error {
	records := model.CloneAll(bookings)
	ids := make([]string, len(records))
	for i, b := range records {
		ids[i] = b.ID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ids) == 0 {
			return deleteAll(tx)
		}
		if err := tx.Where("id NOT IN ?", ids).Delete(&model.Booking{}).Error; err != nil {
			return fmt.Errorf("failed to prune bookings: %w", err)
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&records, 100).Error; err != nil {
			return fmt.Errorf("failed to upsert %d bookings: %w", len(records), err)
		}
		return nil
	})
	// The exclusion constraint is deferred, so the violation may surface on commit.
	if isExclusionViolation(err) {
		return fmt.Errorf("%w: %w", ErrOverlap, err)
	}
	return err
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}

func (s *gormStore) Clear(ctx context.Context) error {
	return deleteAll(s.db.WithContext(ctx))
}

func deleteAll(tx *gorm.DB) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Booking{}).Error; err != nil {
		return fmt.Errorf("failed to clear bookings: %w", err)
	}
	return nil
}
