package conditions

import (
	"errors"
	"fmt"
	"time"
)

// SeriesHours is the length of a full forecast window: seven days of hourly samples.
const SeriesHours = 168

// ErrMisaligned is returned when the fields of a HourlySeries differ in length.
var ErrMisaligned = errors.New("hourly series fields are not aligned")

// HourlySeries holds aligned per-hour samples; index i of every field describes
// the same hour. A nil sample (or a zero Time) is unknown and must never be
// read as a measurement.
type HourlySeries struct {
	Time        []time.Time `json:"time"`
	Temperature []*float64  `json:"temperature"` // °C
	DewPoint    []*float64  `json:"dewPoint"`    // °C
	CloudCover  []*float64  `json:"cloudCover"`  // %
	WindSpeed   []*float64  `json:"windSpeed"`   // km/h
	Humidity    []*float64  `json:"humidity"`    // %
	Seeing      []*float64  `json:"seeing"`      // derived, 0-100
}

// Len returns the number of hours in the series.
func (s HourlySeries) Len() int {
	return len(s.Time)
}

// Validate checks that all fetched fields share the length of Time. Seeing is
// allowed to be empty until it has been estimated.
func (s HourlySeries) Validate() error {
	n := len(s.Time)
	fields := map[string]int{
		"temperature": len(s.Temperature),
		"dewPoint":    len(s.DewPoint),
		"cloudCover":  len(s.CloudCover),
		"windSpeed":   len(s.WindSpeed),
		"humidity":    len(s.Humidity),
	}
	if len(s.Seeing) != 0 {
		fields["seeing"] = len(s.Seeing)
	}
	for name, l := range fields {
		if l != n {
			return fmt.Errorf("%w: %s has %d values, time has %d", ErrMisaligned, name, l, n)
		}
	}
	return nil
}

// Value returns the sample of a rated metric at hour, or nil when unknown.
func (s HourlySeries) Value(m Metric, hour int) *float64 {
	switch m {
	case Clouds:
		return at(s.CloudCover, hour)
	case Seeing:
		return at(s.Seeing, hour)
	case Wind:
		return at(s.WindSpeed, hour)
	case Humidity:
		return at(s.Humidity, hour)
	default:
		panic(fmt.Sprintf("conditions: value of unknown metric %d", int(m)))
	}
}

// TimeAt returns the timestamp of hour and whether it is known.
func (s HourlySeries) TimeAt(hour int) (time.Time, bool) {
	if hour < 0 || hour >= len(s.Time) || s.Time[hour].IsZero() {
		return time.Time{}, false
	}
	return s.Time[hour], true
}

// WithSeeing returns a copy of s whose Seeing field holds EstimateSeeing(s).
func (s HourlySeries) WithSeeing() HourlySeries {
	out := s.clone()
	out.Seeing = EstimateSeeing(s)
	return out
}

// Padded returns a copy of s where every field has exactly n slots, filling
// missing hours with unknowns and dropping anything past n.
func (s HourlySeries) Padded(n int) HourlySeries {
	times := make([]time.Time, n)
	copy(times, s.Time)
	return HourlySeries{
		Time:        times,
		Temperature: padValues(s.Temperature, n),
		DewPoint:    padValues(s.DewPoint, n),
		CloudCover:  padValues(s.CloudCover, n),
		WindSpeed:   padValues(s.WindSpeed, n),
		Humidity:    padValues(s.Humidity, n),
		Seeing:      padValues(s.Seeing, n),
	}
}

func (s HourlySeries) clone() HourlySeries {
	return HourlySeries{
		Time:        append([]time.Time(nil), s.Time...),
		Temperature: append([]*float64(nil), s.Temperature...),
		DewPoint:    append([]*float64(nil), s.DewPoint...),
		CloudCover:  append([]*float64(nil), s.CloudCover...),
		WindSpeed:   append([]*float64(nil), s.WindSpeed...),
		Humidity:    append([]*float64(nil), s.Humidity...),
		Seeing:      append([]*float64(nil), s.Seeing...),
	}
}

func padValues(xs []*float64, n int) []*float64 {
	out := make([]*float64, n)
	copy(out, xs)
	return out
}

func at(xs []*float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	return xs[i]
}
