package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/astro-conditions/internal/weather"
)

type fakeRefresher struct {
	mu      sync.Mutex
	queries []weather.Query
	failFor string
}

func (f *fakeRefresher) Refresh(_ context.Context, q weather.Query) (weather.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if q.Location.Name == f.failFor {
		return weather.Forecast{}, errors.New("upstream down")
	}
	return weather.Forecast{Location: q.Location}, nil
}

type fakePruner struct {
	calls int
}

func (p *fakePruner) Prune(context.Context) (int, error) {
	p.calls++
	return 1, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnceRefreshesEveryLocation(t *testing.T) {
	locs := []weather.Location{
		{Name: "Roque", Lat: 28.76, Lon: -17.89},
		{Name: "Teide", Lat: 28.30, Lon: -16.51},
		{Name: "Paranal", Lat: -24.63, Lon: -70.40},
	}
	ref := &fakeRefresher{failFor: "Teide"}
	pr := &fakePruner{}

	s := New(locs, time.Minute, ref, pr, quietLogger())
	s.now = func() time.Time { return time.Date(2024, 8, 12, 22, 45, 0, 0, time.FixedZone("X", -3*3600)) }

	failed := s.RunOnce(context.Background())
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, pr.calls)

	require.Len(t, ref.queries, 3)
	for _, q := range ref.queries {
		// 22:45 at UTC-3 is already the 13th in UTC.
		assert.Equal(t, "2024-08-13", q.StartDate.Format(weather.DateLayout))
	}
}

func TestStartWithoutLocations(t *testing.T) {
	ref := &fakeRefresher{}
	s := New(nil, time.Minute, ref, nil, quietLogger())
	require.NoError(t, s.Start())
	s.Stop()
	assert.Empty(t, ref.queries)
}

func TestStartRunsImmediately(t *testing.T) {
	ref := &fakeRefresher{}
	s := New([]weather.Location{{Name: "Roque", Lat: 28.76, Lon: -17.89}}, 0, ref, nil, quietLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		ref.mu.Lock()
		defer ref.mu.Unlock()
		return len(ref.queries) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
