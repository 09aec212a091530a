package weather

import (
	"context"

	"github.com/i474232898/astro-conditions/internal/conditions"
)

// ForecastProvider abstracts an hourly forecast source (e.g. Open-Meteo). The
// returned series carries the raw variables only; seeing is derived here.
type ForecastProvider interface {
	Name() string
	FetchHourly(ctx context.Context, q Query) (conditions.HourlySeries, error)
}

// Store is the contract the forecast stores must satisfy.
//
// Save applies f only if no forecast with a higher or equal Seq is stored for
// the same location, and reports whether it did.
type Store interface {
	Save(ctx context.Context, f Forecast) (bool, error)
	Latest(ctx context.Context, loc Location) (Forecast, error)
}

// Notifier is told about every forecast that replaced a stored one.
type Notifier interface {
	Publish(ctx context.Context, f Forecast) error
}
