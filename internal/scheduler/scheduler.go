package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/astro-conditions/internal/weather"
)

const (
	defaultInterval = 30 * time.Minute
	jobTimeout      = 30 * time.Second
)

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context, q weather.Query) (weather.Forecast, error)
}

// Pruner drops expired forecasts.
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

// Scheduler periodically refreshes the seven-day forecast of configured
// locations, starting today.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	pruner    Pruner
	locations []weather.Location
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new Scheduler. pruner may be nil.
func New(locations []weather.Location, interval time.Duration, service Refresher, pruner Pruner, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		pruner:    pruner,
		locations: locations,
		interval:  interval,
		logger:    logger.With("component", "scheduler"),
		now:       time.Now,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = int(defaultInterval.Minutes())
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "locations", len(s.locations), "every_minutes", minutes)
	return nil
}

// RunOnce refreshes every location concurrently and returns how many
// refreshes failed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.logger.Debug("running forecast refresh job")

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := weather.Today(s.now())
			if _, err := s.service.Refresh(ctx, weather.Query{Location: loc, StartDate: start}); err != nil {
				s.logger.Warn("refresh failed", "location", loc.Key(), "name", loc.Name, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if s.pruner != nil {
		if n, err := s.pruner.Prune(ctx); err != nil {
			s.logger.Warn("prune failed", "error", err)
		} else if n > 0 {
			s.logger.Info("pruned expired forecasts", "count", n)
		}
	}

	s.logger.Debug("completed forecast refresh job", "locations", len(s.locations), "failed", failed)
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
