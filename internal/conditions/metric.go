// Package conditions turns hourly forecast samples into observing-condition
// ratings. Everything in here is a pure function of its inputs.
package conditions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned when a metric name does not match any Metric.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric identifies one of the rated condition types.
type Metric int

const (
	Clouds Metric = iota
	Seeing
	Wind
	Humidity
)

// Metrics lists every rated metric in display order.
var Metrics = [...]Metric{Clouds, Seeing, Wind, Humidity}

func (m Metric) String() string {
	switch m {
	case Clouds:
		return "clouds"
	case Seeing:
		return "seeing"
	case Wind:
		return "wind"
	case Humidity:
		return "humidity"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// Label is the human-readable name shown next to a gauge.
func (m Metric) Label() string {
	switch m {
	case Clouds:
		return "Cloud Cover"
	case Seeing:
		return "Seeing"
	case Wind:
		return "Wind"
	case Humidity:
		return "Humidity"
	default:
		return m.String()
	}
}

func (m Metric) valid() bool {
	return m >= Clouds && m <= Humidity
}

// MarshalText encodes the metric by name.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMetric, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a metric name.
func (m *Metric) UnmarshalText(b []byte) error {
	parsed, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMetric maps a wire name such as "clouds" to its Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clouds":
		return Clouds, nil
	case "seeing":
		return Seeing, nil
	case "wind":
		return Wind, nil
	case "humidity":
		return Humidity, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
}
