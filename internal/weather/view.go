package weather

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/i474232898/astro-conditions/internal/common"
	"github.com/i474232898/astro-conditions/internal/conditions"
	"github.com/i474232898/astro-conditions/internal/sky"
)

// ErrHourOutOfRange is returned when an hour index falls outside the forecast.
var ErrHourOutOfRange = errors.New("hour out of range")

const (
	timeLabelLayout = "15:04 MST"
	tooltipLayout   = "2006-01-02 15:04"
	dateLabelLayout = "01/02"

	// Placeholder for a date label whose day has no data yet.
	dateLabelPlaceholder = "–"
)

// HourView is the display-ready state of every gauge for one hour.
type HourView struct {
	Location    Location              `json:"location"`
	Seq         uint64                `json:"seq"`
	Hour        int                   `json:"hour"`
	Time        *time.Time            `json:"time"`
	TimeLabel   string                `json:"timeLabel"`
	Units       conditions.UnitSystem `json:"units"`
	Gauges      [4]conditions.Gauge   `json:"gauges"`
	Temperature string                `json:"temperature"`
	DewPoint    string                `json:"dewPoint"`
	Sky         *sky.Conditions       `json:"sky,omitempty"`
}

// BuildHourView rates every metric of f at hour.
func BuildHourView(f Forecast, hour int, units conditions.UnitSystem) (HourView, error) {
	if hour < 0 || hour >= f.Hourly.Len() {
		return HourView{}, fmt.Errorf("%w: %d (forecast has %d hours)", ErrHourOutOfRange, hour, f.Hourly.Len())
	}

	v := HourView{
		Location:    f.Location,
		Seq:         f.Seq,
		Hour:        hour,
		TimeLabel:   conditions.Placeholder,
		Units:       units,
		Temperature: conditions.FormatTemp(f.Hourly.Temperature[hour], units),
		DewPoint:    conditions.FormatTemp(f.Hourly.DewPoint[hour], units),
	}
	for i, m := range conditions.Metrics {
		v.Gauges[i] = conditions.NewGauge(m, f.Hourly.Value(m, hour), units)
	}

	if t, ok := f.Hourly.TimeAt(hour); ok {
		v.Time = &t
		v.TimeLabel = t.Format(timeLabelLayout)
		c := sky.At(t, f.Location.Lat, f.Location.Lon)
		v.Sky = &c
	}
	return v, nil
}

// TimelineCell is one hour of one metric row.
type TimelineCell struct {
	Bucket  conditions.Bucket `json:"bucket"`
	Color   string            `json:"color"`
	Tooltip string            `json:"tooltip"`
}

// TimelineRow is the strip of one metric across the whole window.
type TimelineRow struct {
	Metric conditions.Metric `json:"metric"`
	Name   string            `json:"name"`
	Icon   string            `json:"icon"`
	Cells  []TimelineCell    `json:"cells"`
}

// TimelineView is the seven-day overview strip.
type TimelineView struct {
	Title      string        `json:"title"`
	Seq        uint64        `json:"seq"`
	Rows       []TimelineRow `json:"rows"`
	DateLabels []string      `json:"dateLabels"`
	HelpText   string        `json:"helpText"`
}

// BuildTimeline grades every hour of f on the simple timeline scale. The strip
// always has SeriesHours cells per row; hours not yet fetched are placeholders.
func BuildTimeline(f Forecast) TimelineView {
	series := f.Hourly.Padded(conditions.SeriesHours)

	view := TimelineView{
		Title:    "7-Day Overview",
		Seq:      f.Seq,
		HelpText: "Green indicates great astronomy conditions.",
	}

	for _, m := range conditions.Metrics {
		row := TimelineRow{
			Metric: m,
			Name:   rowName(m),
			Icon:   rowIcon(m),
			Cells:  make([]TimelineCell, conditions.SeriesHours),
		}
		for i := range row.Cells {
			v := series.Value(m, i)
			b := conditions.TimelineBucket(v, m)
			row.Cells[i] = TimelineCell{
				Bucket:  b,
				Color:   b.Color(),
				Tooltip: tooltip(series, m, i, v),
			}
		}
		view.Rows = append(view.Rows, row)
	}

	for d := 0; d < WindowDays; d++ {
		label := dateLabelPlaceholder
		if t, ok := series.TimeAt(d * 24); ok {
			label = t.Format(dateLabelLayout)
		}
		view.DateLabels = append(view.DateLabels, label)
	}
	return view
}

func tooltip(s conditions.HourlySeries, m conditions.Metric, hour int, v *float64) string {
	when := conditions.Placeholder
	if t, ok := s.TimeAt(hour); ok {
		when = t.Format(tooltipLayout)
	}
	value := conditions.Placeholder
	if common.Finite(v) {
		value = fmt.Sprintf("%d", int(math.Round(*v)))
	}
	unit := "%"
	if m == conditions.Wind {
		unit = " km/h"
	}
	return fmt.Sprintf("%s\n%s: %s%s", when, m, value, unit)
}

func rowName(m conditions.Metric) string {
	switch m {
	case conditions.Clouds:
		return "Clouds"
	case conditions.Seeing:
		return "Seeing"
	case conditions.Wind:
		return "Wind"
	default:
		return "Humidity"
	}
}

func rowIcon(m conditions.Metric) string {
	switch m {
	case conditions.Clouds:
		return "☁️"
	case conditions.Seeing:
		return "👁️"
	case conditions.Wind:
		return "💨"
	default:
		return "💧"
	}
}
