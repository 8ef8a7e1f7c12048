package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
	"salon-booking-backend/internal/store"
)

// CommitHook observes bookings after a successful insert. Hooks run after the
// write lock is released and must not block.
type CommitHook func(model.Booking)

// Ledger guards the booking collection. Every decision is taken over a fresh
// Load of the store, and writers are serialized so that no two confirmed
// bookings on the same date can ever overlap.
type Ledger struct {
	store store.Store
	cal   schedule.Calendar
	loc   *time.Location
	now   func() time.Time
	newID func() (string, error)
	log   *zap.Logger

	mu    sync.RWMutex
	hooks []CommitHook
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the salon's local zone. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// WithIDGenerator replaces the time-ordered UUID generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(l *Ledger) { l.newID = gen }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// NewLedger creates a ledger over s validated against cal.
func NewLedger(s store.Store, cal schedule.Calendar, opts ...Option) *Ledger {
	l := &Ledger{
		store: s,
		cal:   cal,
		loc:   time.Local,
		now:   time.Now,
		newID: newUUID,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// OnCommit registers a hook fired after every successful insert.
func (l *Ledger) OnCommit(h CommitHook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, h)
}

// Calendar returns the configuration the ledger validates against.
func (l *Ledger) Calendar() schedule.Calendar {
	return l.cal
}

// Location returns the salon's local zone.
func (l *Ledger) Location() *time.Location {
	return l.loc
}

func (l *Ledger) load(ctx context.Context) ([]model.Booking, error) {
	bookings, err := l.store.Load(ctx)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return bookings, nil
}

func (l *Ledger) save(ctx context.Context, bookings []model.Booking) error {
	if err := l.store.Save(ctx, bookings); err != nil {
		if errors.Is(err, store.ErrOverlap) {
			return fmt.Errorf("%w: %w", ErrSlotConflict, err)
		}
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// busyOn returns the intervals of confirmed bookings on date. Records whose
// interval cannot be rebuilt are skipped with a warning.
func (l *Ledger) busyOn(bookings []model.Booking, date schedule.Date) []schedule.TimeInterval {
	key := date.String()
	var busy []schedule.TimeInterval
	for _, b := range bookings {
		if !b.IsActive() || b.Date != key {
			continue
		}
		iv, err := b.Interval()
		if err != nil {
			l.log.Warn("skipping malformed booking", zap.String("id", b.ID), zap.Error(err))
			continue
		}
		busy = append(busy, iv)
	}
	return busy
}

// IsSlotFree reports whether no confirmed booking on date overlaps [start, start+duration).
func (l *Ledger) IsSlotFree(ctx context.Context, date schedule.Date, start, duration int) (bool, error) {
	candidate, err := schedule.NewInterval(date, start, duration)
	if err != nil {
		return false, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	bookings, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	return !schedule.OverlapsAny(candidate, l.busyOn(bookings, date)), nil
}

// Insert re-checks that the candidate's interval is free and, if so, appends it
// as confirmed and persists the collection. On conflict nothing is written.
// The id is generated when empty, CreatedAt is stamped when zero and a
// missing duration is stored as DefaultDurationMinutes.
func (l *Ledger) Insert(ctx context.Context, candidate model.Booking) (model.Booking, error) {
	iv, err := candidate.Interval()
	if err != nil {
		return model.Booking{}, err
	}
	if candidate.ID == "" {
		if candidate.ID, err = l.newID(); err != nil {
			return model.Booking{}, fmt.Errorf("failed to generate booking id: %w", err)
		}
	}
	candidate.Date = iv.Date.String()
	candidate.DurationMinutes = iv.Duration
	candidate.Status = model.StatusConfirmed
	candidate.CancelledAt = nil
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = l.now()
	}

	committed, hooks, err := l.insertLocked(ctx, candidate, iv)
	if err != nil {
		return model.Booking{}, err
	}

	l.log.Info("booking confirmed",
		zap.String("id", committed.ID),
		zap.String("interval", iv.String()),
		zap.String("service", string(committed.ServiceCode)))
	l.emit(hooks, committed)
	return committed, nil
}

func (l *Ledger) insertLocked(ctx context.Context, candidate model.Booking, iv schedule.TimeInterval) (model.Booking, []CommitHook, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bookings, err := l.load(ctx)
	if err != nil {
		return model.Booking{}, nil, err
	}
	for _, b := range bookings {
		if b.ID == candidate.ID {
			return model.Booking{}, nil, fmt.Errorf("%w: %s", ErrDuplicateID, candidate.ID)
		}
	}
	if schedule.OverlapsAny(iv, l.busyOn(bookings, iv.Date)) {
		return model.Booking{}, nil, fmt.Errorf("%w: %s", ErrSlotConflict, iv)
	}

	if err := l.save(ctx, append(bookings, candidate)); err != nil {
		return model.Booking{}, nil, err
	}
	hooks := make([]CommitHook, len(l.hooks))
	copy(hooks, l.hooks)
	return candidate.Clone(), hooks, nil
}

func (l *Ledger) emit(hooks []CommitHook, b model.Booking) {
	for _, h := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					l.log.Error("commit hook panicked", zap.String("id", b.ID), zap.Any("panic", r))
				}
			}()
			h(b.Clone())
		}()
	}
}

// mutate applies fn to the booking with id under the write lock and persists the result.
// When fn fails the collection is left untouched and the current record is returned with the error.
func (l *Ledger) mutate(ctx context.Context, id string, fn func(*model.Booking) error) (model.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bookings, err := l.load(ctx)
	if err != nil {
		return model.Booking{}, err
	}
	idx := -1
	for i := range bookings {
		if bookings[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Booking{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	current := bookings[idx].Clone()
	if err := fn(&bookings[idx]); err != nil {
		return current, err
	}
	if err := l.save(ctx, bookings); err != nil {
		return model.Booking{}, err
	}
	return bookings[idx].Clone(), nil
}

// Cancel moves a confirmed booking to cancelled. Cancelling twice returns the
// unchanged record together with ErrAlreadyCancelled.
func (l *Ledger) Cancel(ctx context.Context, id string) (model.Booking, error) {
	b, err := l.mutate(ctx, id, func(b *model.Booking) error {
		return b.Cancel(l.now())
	})
	if err == nil {
		l.log.Info("booking cancelled", zap.String("id", id))
	}
	return b, err
}

// Complete is the administrative confirmed -> completed transition.
func (l *Ledger) Complete(ctx context.Context, id string) (model.Booking, error) {
	b, err := l.mutate(ctx, id, func(b *model.Booking) error {
		return b.Complete()
	})
	if err == nil {
		l.log.Info("booking completed", zap.String("id", id))
	}
	return b, err
}

// CompletePast completes every confirmed booking that has ended by now and
// returns how many were moved.
func (l *Ledger) CompletePast(ctx context.Context, now time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bookings, err := l.load(ctx)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range bookings {
		if !bookings[i].IsActive() {
			continue
		}
		iv, err := bookings[i].Interval()
		if err != nil {
			continue
		}
		if iv.Date.At(iv.End(), l.loc).After(now) {
			continue
		}
		if err := bookings[i].Complete(); err == nil {
			completed++
		}
	}
	if completed == 0 {
		return 0, nil
	}
	if err := l.save(ctx, bookings); err != nil {
		return 0, err
	}
	return completed, nil
}

// ListActive returns confirmed bookings sorted by date and start time,
// restricted to date when it is non-nil.
func (l *Ledger) ListActive(ctx context.Context, date *schedule.Date) ([]model.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bookings, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	return activeOn(bookings, date), nil
}

func activeOn(bookings []model.Booking, date *schedule.Date) []model.Booking {
	active := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		if date != nil && b.Date != date.String() {
			continue
		}
		active = append(active, b)
	}
	sortChronologically(active)
	return active
}

// All returns the full collection, cancelled and completed bookings included.
func (l *Ledger) All(ctx context.Context) ([]model.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bookings, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	sortChronologically(bookings)
	return bookings, nil
}

// Clear empties the collection. It bypasses the lifecycle entirely.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Clear(ctx); err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	l.log.Warn("booking collection cleared")
	return nil
}

func sortChronologically(bookings []model.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartMinute != b.StartMinute {
			return a.StartMinute < b.StartMinute
		}
		return a.ID < b.ID
	})
}
