package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/i474232898/astro-conditions/internal/conditions"
)

var errNoProvider = errors.New("no forecast provider configured")

// ErrUpstream marks a refresh that failed because the forecast provider did
// not deliver a usable series.
var ErrUpstream = errors.New("forecast provider failed")

// Service orchestrates fetching forecasts, deriving seeing, and persisting
// the latest forecast per location.
type Service struct {
	store    Store
	provider ForecastProvider
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	seq      *sequencer
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier publishes every applied forecast to n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service.
func NewService(store Store, provider ForecastProvider, opts ...Option) *Service {
	s := &Service{
		store:    store,
		provider: provider,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seq = newSequencer(s.now)
	return s
}

// Refresh fetches the seven-day window for q, derives seeing and stores the
// result. It returns the forecast that is current for the location afterwards:
// when a later request already completed, that one wins and this response is
// dropped. On fetch failure nothing stored is touched.
func (s *Service) Refresh(ctx context.Context, q Query) (Forecast, error) {
	if s.provider == nil {
		return Forecast{}, errNoProvider
	}

	loc := q.Location
	seq := s.seq.Next()
	s.logger.Debug("refreshing forecast",
		"location", loc.Key(),
		"start", q.StartDate.Format(DateLayout),
		"provider", s.provider.Name(),
		"seq", seq,
	)

	series, err := s.provider.FetchHourly(ctx, q)
	if err != nil {
		s.logger.Warn("forecast fetch failed; keeping last good forecast",
			"location", loc.Key(),
			"provider", s.provider.Name(),
			"error", err,
		)
		return Forecast{}, fmt.Errorf("fetch forecast for %s: %w: %w", loc.Key(), ErrUpstream, err)
	}
	if err := series.Validate(); err != nil {
		return Forecast{}, fmt.Errorf("forecast for %s: %w: %w", loc.Key(), ErrUpstream, err)
	}

	f := Forecast{
		Location:  loc,
		StartDate: q.StartDate.Format(DateLayout),
		Seq:       seq,
		FetchedAt: s.now().UTC(),
		Hourly:    series.WithSeeing(),
	}

	applied, err := s.store.Save(ctx, f)
	if err != nil {
		return Forecast{}, fmt.Errorf("save forecast for %s: %w", loc.Key(), err)
	}
	if !applied {
		s.logger.Info("discarding stale forecast response", "location", loc.Key(), "seq", seq)
		return s.store.Latest(ctx, loc)
	}

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, f); err != nil {
			s.logger.Warn("publish forecast failed", "location", loc.Key(), "error", err)
		}
	}
	return f, nil
}

// Latest returns the current forecast for a location.
func (s *Service) Latest(ctx context.Context, loc Location) (Forecast, error) {
	return s.store.Latest(ctx, loc)
}

// Hour returns the gauge view of one hour of the current forecast.
func (s *Service) Hour(ctx context.Context, loc Location, hour int, units conditions.UnitSystem) (HourView, error) {
	f, err := s.store.Latest(ctx, loc)
	if err != nil {
		return HourView{}, err
	}
	return BuildHourView(f, hour, units)
}

// Timeline returns the seven-day strip of the current forecast.
func (s *Service) Timeline(ctx context.Context, loc Location) (TimelineView, error) {
	f, err := s.store.Latest(ctx, loc)
	if err != nil {
		return TimelineView{}, err
	}
	return BuildTimeline(f), nil
}
