package conditions

import (
	"strconv"

	"github.com/i474232898/astro-conditions/internal/common"
)

// Gauge is everything the display layer needs to draw one circular rating.
type Gauge struct {
	Metric       Metric  `json:"metric"`
	Label        string  `json:"label"`
	Known        bool    `json:"known"`
	Rating       float64 `json:"rating"`
	Class        Class   `json:"class,omitempty"`
	Descriptor   string  `json:"descriptor"`
	FillFraction float64 `json:"fillFraction"`
	DashOffset   float64 `json:"dashOffset"`
	Display      string  `json:"display"`
	DisplayValue string  `json:"displayValue"`
	DisplayUnit  string  `json:"displayUnit"`
}

// NewGauge rates v for metric m. An unknown v yields an empty, neutral gauge.
func NewGauge(m Metric, v *float64, units UnitSystem) Gauge {
	value, unit := FormatMetric(m, v, units)
	g := Gauge{
		Metric:       m,
		Label:        m.Label(),
		DisplayValue: value,
		DisplayUnit:  unit,
		Display:      Placeholder,
		DashOffset:   DialCircumference,
	}
	if !common.Finite(v) {
		return g
	}

	r := Rate(*v, m)
	g.Known = true
	g.Rating = r.Value
	g.Class = r.Class
	g.Descriptor = r.Descriptor()
	g.FillFraction = r.FillFraction()
	g.DashOffset = r.DashOffset()
	g.Display = strconv.Itoa(r.Display())
	return g
}
