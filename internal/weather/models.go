package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/astro-conditions/internal/conditions"
)

// DateLayout is the wire format of a forecast start date.
const DateLayout = "2006-01-02"

// WindowDays is the number of days covered by one forecast request.
const WindowDays = 7

// Location is a point for which conditions are forecast.
type Location struct {
	Name string  `json:"name,omitempty"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key returns a canonical string key for indexing this location in stores.
// Coordinates are rounded to roughly 10 m so that repeated lookups of the
// same place share an entry.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}

// Query selects the seven-day window starting at StartDate for a location.
type Query struct {
	Location  Location
	StartDate time.Time
}

// EndDate is the last day (inclusive) of the window.
func (q Query) EndDate() time.Time {
	return q.StartDate.AddDate(0, 0, WindowDays-1)
}

// Forecast is one fetched, seeing-augmented series for a location. Seq orders
// forecasts for the same location: a higher Seq was requested later.
type Forecast struct {
	Location  Location                `json:"location"`
	StartDate string                  `json:"startDate"`
	Seq       uint64                  `json:"seq"`
	FetchedAt time.Time               `json:"fetchedAt"`
	Hourly    conditions.HourlySeries `json:"hourly"`
}
