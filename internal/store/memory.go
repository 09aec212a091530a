package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/i474232898/astro-conditions/internal/weather"
)

var (
	// ErrNotFound is returned when no forecast is available for a given location.
	ErrNotFound = errors.New("no forecast for location")
)

var (
	_ weather.Store = (*MemoryStore)(nil)
	_ weather.Store = (*SQLStore)(nil)
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// It keeps only the newest forecast per location.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key
	data map[string]weather.Forecast

	// optional max age for forecasts
	maxAge time.Duration
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore. If maxAge is <= 0, forecasts
// never expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]weather.Forecast),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Save stores f unless a forecast with an equal or higher Seq is already held
// for the same location.
func (s *MemoryStore) Save(ctx context.Context, f weather.Forecast) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	key := f.Location.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.data[key]; ok && cur.Seq >= f.Seq {
		return false, nil
	}
	s.data[key] = f
	return true, nil
}

// Latest returns the current forecast for a location.
func (s *MemoryStore) Latest(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return weather.Forecast{}, err
	}

	s.mu.RLock()
	f, ok := s.data[loc.Key()]
	s.mu.RUnlock()

	if !ok || expired(f, s.maxAge, s.now()) {
		return weather.Forecast{}, ErrNotFound
	}
	return f, nil
}

// Prune drops every forecast older than the configured max age and returns
// how many were removed.
func (s *MemoryStore) Prune(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.maxAge <= 0 {
		return 0, nil
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for key, f := range s.data {
		if expired(f, s.maxAge, now) {
			delete(s.data, key)
			n++
		}
	}
	return n, nil
}

func expired(f weather.Forecast, maxAge time.Duration, now time.Time) bool {
	return maxAge > 0 && f.FetchedAt.Before(now.Add(-maxAge))
}
