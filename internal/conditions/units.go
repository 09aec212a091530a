package conditions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/i474232898/astro-conditions/internal/common"
)

// Placeholder is rendered in place of an unknown value.
const Placeholder = "--"

const kmhToMph = 0.621371

// UnitSystem selects how values are displayed. Ratings always use metric.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// Imperial reports whether values should be shown in °F and mph.
func (u UnitSystem) Imperial() bool {
	return u == UnitsImperial
}

// ParseUnits accepts "metric" or "imperial"; an empty string means metric.
func ParseUnits(s string) (UnitSystem, error) {
	switch UnitSystem(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnitsMetric:
		return UnitsMetric, nil
	case UnitsImperial:
		return UnitsImperial, nil
	default:
		return "", fmt.Errorf("invalid units %q (allowed: metric, imperial)", s)
	}
}

// ConvertTemp converts a Celsius temperature to Fahrenheit when toImperial is set.
func ConvertTemp(celsius float64, toImperial bool) float64 {
	if toImperial {
		return celsius*9/5 + 32
	}
	return celsius
}

// ConvertWind converts km/h to mph when toImperial is set.
func ConvertWind(kmh float64, toImperial bool) float64 {
	if toImperial {
		return kmh * kmhToMph
	}
	return kmh
}

// FormatMetric renders a rated metric's raw value for display and returns the
// value and its unit suffix.
func FormatMetric(m Metric, v *float64, units UnitSystem) (string, string) {
	unit := "%"
	if m == Wind {
		unit = " km/h"
		if units.Imperial() {
			unit = " mph"
		}
	}
	if !common.Finite(v) {
		return Placeholder, unit
	}
	if m == Wind && units.Imperial() {
		return strconv.FormatFloat(ConvertWind(*v, true), 'f', 1, 64), unit
	}
	return common.FormatFloat(*v), unit
}

// FormatTemp renders a Celsius sample with one decimal in the chosen units.
func FormatTemp(v *float64, units UnitSystem) string {
	unit := "°C"
	if units.Imperial() {
		unit = "°F"
	}
	if !common.Finite(v) {
		return Placeholder + unit
	}
	return strconv.FormatFloat(ConvertTemp(*v, units.Imperial()), 'f', 1, 64) + unit
}
