package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
	"salon-booking-backend/internal/store"
)

var (
	fixedNow  = time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)
	wednesday = schedule.NewDate(2024, time.January, 10)
	thursday  = schedule.NewDate(2024, time.January, 11)
)

func sequentialIDs() func() (string, error) {
	var n atomic.Int64
	return func() (string, error) {
		return fmt.Sprintf("bk-%04d", n.Add(1)), nil
	}
}

func newTestLedger(t *testing.T, s store.Store) *Ledger {
	t.Helper()
	return NewLedger(s, schedule.DefaultCalendar(),
		WithClock(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
		WithIDGenerator(sequentialIDs()),
		WithLogger(zaptest.NewLogger(t)),
	)
}

func candidate(date schedule.Date, hh, mm, duration int) model.Booking {
	return model.Booking{
		Date:            date.String(),
		StartMinute:     hh*60 + mm,
		DurationMinutes: duration,
		ServiceCode:     model.ServiceClassic,
		ClientName:      "Anna",
		Phone:           "+7 900 000-00-00",
	}
}

// failingStore fails the selected operations.
type failingStore struct {
	store.Store
	loadErr, saveErr error
}

func (f *failingStore) Load(ctx context.Context) ([]model.Booking, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Store.Load(ctx)
}

func (f *failingStore) Save(ctx context.Context, bookings []model.Booking) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Store.Save(ctx, bookings)
}

func assertNoOverlaps(t *testing.T, s store.Store) {
	t.Helper()
	all, err := s.Load(context.Background())
	require.NoError(t, err)
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if !all[i].IsActive() || !all[j].IsActive() {
				continue
			}
			a, err := all[i].Interval()
			require.NoError(t, err)
			b, err := all[j].Interval()
			require.NoError(t, err)
			assert.False(t, schedule.Overlaps(a, b), "%s overlaps %s", a, b)
		}
	}
}

func TestLedger_InsertConflict(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	l := newTestLedger(t, s)

	first, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, first.Status)
	assert.Equal(t, "bk-0001", first.ID)
	assert.True(t, first.CreatedAt.Equal(fixedNow))

	_, err = l.Insert(ctx, candidate(wednesday, 10, 30, 30))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, IsStorageError(err))

	all, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "a conflicting insert must not write")

	_, err = l.Insert(ctx, candidate(wednesday, 11, 0, 30))
	assert.NoError(t, err)

	_, err = l.Insert(ctx, candidate(thursday, 10, 30, 30))
	assert.NoError(t, err, "other dates do not conflict")

	assertNoOverlaps(t, s)
}

func TestLedger_TouchingBoundaries(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	_, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)
	_, err = l.Insert(ctx, candidate(wednesday, 11, 0, 60))
	require.NoError(t, err)
	_, err = l.Insert(ctx, candidate(wednesday, 9, 0, 60))
	require.NoError(t, err)
}

func TestLedger_InsertForcesConfirmed(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	c := candidate(wednesday, 15, 0, 30)
	c.Status = model.StatusCancelled
	at := fixedNow
	c.CancelledAt = &at

	b, err := l.Insert(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.Nil(t, b.CancelledAt)
}

func TestLedger_InsertRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	c := candidate(wednesday, 10, 0, 30)
	c.Date = "2024-13-40"
	_, err := l.Insert(ctx, c)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	c = candidate(wednesday, 23, 30, 60)
	_, err = l.Insert(ctx, c)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = l.Insert(ctx, candidate(wednesday, 10, 0, -30))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	stored, err := l.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored, "rejected candidates are never written")

	free, err := l.IsSlotFree(ctx, wednesday, 10*60+30, 30)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestLedger_InsertStoresDefaultDuration(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	b, err := l.Insert(ctx, candidate(wednesday, 10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultDurationMinutes, b.DurationMinutes)

	stored, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, model.DefaultDurationMinutes, stored[0].DurationMinutes,
		"the stored record matches the interval that was checked")

	free, err := l.IsSlotFree(ctx, wednesday, 10*60+30, 30)
	require.NoError(t, err)
	assert.False(t, free)
	free, err = l.IsSlotFree(ctx, wednesday, 11*60, 30)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestLedger_InsertDuplicateID(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	c := candidate(wednesday, 10, 0, 30)
	c.ID = "fixed"
	_, err := l.Insert(ctx, c)
	require.NoError(t, err)

	c = candidate(wednesday, 16, 0, 30)
	c.ID = "fixed"
	_, err = l.Insert(ctx, c)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestLedger_ConcurrentInserts(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	l := newTestLedger(t, s)

	const workers = 16
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Every candidate overlaps 12:00-12:30.
			_, err := l.Insert(ctx, candidate(wednesday, 11, 30+i%3*10, 60))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrSlotConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, succeeded.Load())
	assert.EqualValues(t, workers-1, conflicts.Load())
	assertNoOverlaps(t, s)
}

func TestLedger_Cancel(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	l := newTestLedger(t, s)

	b, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)

	cancelled, err := l.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	firstStamp := *cancelled.CancelledAt

	// The freed interval can be booked again.
	_, err = l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)

	again, err := l.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, model.StatusCancelled, again.Status)
	require.NotNil(t, again.CancelledAt)
	assert.True(t, firstStamp.Equal(*again.CancelledAt))

	all, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "cancelled bookings are kept")

	_, err = l.Cancel(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedger_ListActive(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	for _, c := range []model.Booking{
		candidate(wednesday, 14, 0, 30),
		candidate(wednesday, 9, 30, 30),
		candidate(wednesday, 11, 0, 30),
		candidate(thursday, 9, 0, 30),
	} {
		_, err := l.Insert(ctx, c)
		require.NoError(t, err)
	}
	dropped, err := l.Insert(ctx, candidate(wednesday, 16, 0, 30))
	require.NoError(t, err)
	_, err = l.Cancel(ctx, dropped.ID)
	require.NoError(t, err)

	day, err := l.ListActive(ctx, &wednesday)
	require.NoError(t, err)
	labels := make([]string, len(day))
	for i, b := range day {
		labels[i] = b.TimeLabel()
	}
	assert.Equal(t, []string{"09:30", "11:00", "14:00"}, labels)

	all, err := l.ListActive(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, thursday.String(), all[3].Date)

	everything, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, everything, 5)
}

func TestLedger_IsSlotFree(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	_, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)

	free, err := l.IsSlotFree(ctx, wednesday, 10*60+30, 30)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = l.IsSlotFree(ctx, wednesday, 11*60, 30)
	require.NoError(t, err)
	assert.True(t, free)

	_, err = l.IsSlotFree(ctx, wednesday, 11*60, 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestLedger_StorageErrors(t *testing.T) {
	ctx := context.Background()

	broken := &failingStore{Store: store.NewMemoryStore(), loadErr: errors.New("connection reset")}
	l := newTestLedger(t, broken)

	_, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.NotErrorIs(t, err, ErrSlotConflict)

	_, err = l.ListActive(ctx, nil)
	assert.True(t, IsStorageError(err))

	_, err = l.Cancel(ctx, "any")
	assert.True(t, IsStorageError(err))
}

func TestLedger_SaveFailureSkipsHooks(t *testing.T) {
	ctx := context.Background()
	broken := &failingStore{Store: store.NewMemoryStore(), saveErr: errors.New("disk full")}
	l := newTestLedger(t, broken)

	fired := 0
	l.OnCommit(func(model.Booking) { fired++ })

	_, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	assert.True(t, IsStorageError(err))
	assert.ErrorContains(t, err, "disk full")
	assert.Zero(t, fired)
}

func TestLedger_DatabaseOverlapIsConflict(t *testing.T) {
	ctx := context.Background()
	rejecting := &failingStore{
		Store:   store.NewMemoryStore(),
		saveErr: fmt.Errorf("%w: exclusion constraint", store.ErrOverlap),
	}
	l := newTestLedger(t, rejecting)

	_, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.False(t, IsStorageError(err))
}

func TestLedger_CommitHooks(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	var seen []model.Booking
	l.OnCommit(func(model.Booking) { panic("notifier exploded") })
	l.OnCommit(func(b model.Booking) { seen = append(seen, b) })

	b, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err, "a panicking hook must not fail the booking")
	require.Len(t, seen, 1)
	assert.Equal(t, b.ID, seen[0].ID)

	_, err = l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Len(t, seen, 1, "hooks fire only for committed bookings")
}

func TestLedger_Complete(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t, store.NewMemoryStore())

	b, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)

	done, err := l.Complete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)

	unchanged, err := l.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NotErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, model.StatusCompleted, unchanged.Status, "the current record comes back with the error")
	assert.Nil(t, unchanged.CancelledAt)

	active, err := l.ListActive(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestLedger_CompletePast(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	l := newTestLedger(t, s)

	_, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)
	_, err = l.Insert(ctx, candidate(wednesday, 11, 0, 60))
	require.NoError(t, err)
	_, err = l.Insert(ctx, candidate(thursday, 10, 0, 60))
	require.NoError(t, err)

	n, err := l.CompletePast(ctx, wednesday.At(12*60, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, n, "a booking ending exactly now counts as past")

	n, err = l.CompletePast(ctx, wednesday.At(12*60, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, n)

	active, err := l.ListActive(ctx, nil)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, thursday.String(), active[0].Date)
}

func TestLedger_Clear(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	l := newTestLedger(t, s)

	_, err := l.Insert(ctx, candidate(wednesday, 10, 0, 60))
	require.NoError(t, err)
	require.NoError(t, l.Clear(ctx))

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
