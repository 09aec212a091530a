package conditions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertTemp(t *testing.T) {
	assert.Equal(t, 32.0, ConvertTemp(0, true))
	assert.Equal(t, 212.0, ConvertTemp(100, true))
	assert.Equal(t, 21.5, ConvertTemp(21.5, false))
}

func TestConvertWind(t *testing.T) {
	assert.InDelta(t, 6.21371, ConvertWind(10, true), 1e-9)
	assert.Equal(t, 10.0, ConvertWind(10, false))
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name      string
		metric    Metric
		value     *float64
		units     UnitSystem
		wantValue string
		wantUnit  string
	}{
		{"wind metric", Wind, ptr(12.4), UnitsMetric, "12.4", " km/h"},
		{"wind imperial", Wind, ptr(10), UnitsImperial, "6.2", " mph"},
		{"clouds", Clouds, ptr(35), UnitsImperial, "35", "%"},
		{"seeing", Seeing, ptr(72), UnitsMetric, "72", "%"},
		{"unknown", Humidity, nil, UnitsMetric, Placeholder, "%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, u := FormatMetric(tt.metric, tt.value, tt.units)
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantUnit, u)
		})
	}
}

func TestFormatTemp(t *testing.T) {
	assert.Equal(t, "10.0°C", FormatTemp(ptr(10), UnitsMetric))
	assert.Equal(t, "50.0°F", FormatTemp(ptr(10), UnitsImperial))
	assert.Equal(t, "--°C", FormatTemp(nil, UnitsMetric))
}

func TestParseUnits(t *testing.T) {
	u, err := ParseUnits("")
	assert.NoError(t, err)
	assert.Equal(t, UnitsMetric, u)

	u, err = ParseUnits("Imperial")
	assert.NoError(t, err)
	assert.True(t, u.Imperial())

	_, err = ParseUnits("kelvin")
	assert.Error(t, err)
}

func TestUnitsDoNotChangeRating(t *testing.T) {
	metric := NewGauge(Wind, ptr(12), UnitsMetric)
	imperial := NewGauge(Wind, ptr(12), UnitsImperial)

	assert.Equal(t, metric.Rating, imperial.Rating)
	assert.Equal(t, metric.Class, imperial.Class)
	assert.NotEqual(t, metric.DisplayValue, imperial.DisplayValue)
}

func TestNewGauge(t *testing.T) {
	g := NewGauge(Clouds, ptr(90), UnitsMetric)
	assert.True(t, g.Known)
	assert.InDelta(t, -80, g.Rating, 1e-9)
	assert.Equal(t, ClassPoor, g.Class)
	assert.Equal(t, "Poor", g.Descriptor)
	assert.InDelta(t, 0.8, g.FillFraction, 1e-9)
	assert.Equal(t, "80", g.Display)
	assert.Equal(t, "90", g.DisplayValue)
	assert.Equal(t, "Cloud Cover", g.Label)
}

func TestNewGaugeUnknown(t *testing.T) {
	g := NewGauge(Seeing, nil, UnitsMetric)
	assert.False(t, g.Known)
	assert.Equal(t, Placeholder, g.Display)
	assert.Equal(t, Placeholder, g.DisplayValue)
	assert.Zero(t, g.FillFraction)
	assert.Empty(t, g.Class)
}
