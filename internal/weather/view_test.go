package weather

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/astro-conditions/internal/conditions"
)

func testForecast(hours int) Forecast {
	return Forecast{
		Location:  testLocation,
		StartDate: testStart.Format(DateLayout),
		Seq:       42,
		Hourly:    constantSeries(hours, 5).WithSeeing(),
	}
}

func TestBuildHourView(t *testing.T) {
	f := testForecast(4)
	f.Hourly.WindSpeed[2] = nil
	f.Hourly = f.Hourly.WithSeeing()

	v, err := BuildHourView(f, 2, conditions.UnitsMetric)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), v.Seq)
	assert.Equal(t, "02:00 UTC", v.TimeLabel)
	require.NotNil(t, v.Time)
	require.NotNil(t, v.Sky)
	assert.Equal(t, "10.0°C", v.Temperature)
	assert.Equal(t, "0.0°C", v.DewPoint)

	clouds := v.Gauges[0]
	assert.Equal(t, conditions.Clouds, clouds.Metric)
	assert.True(t, clouds.Known)
	assert.Equal(t, "90", clouds.Display)
	assert.Equal(t, "5", clouds.DisplayValue)
	assert.Equal(t, "%", clouds.DisplayUnit)

	// Seeing depends on wind, which is unknown at this hour.
	seeing := v.Gauges[1]
	assert.Equal(t, conditions.Seeing, seeing.Metric)
	assert.False(t, seeing.Known)

	wind := v.Gauges[2]
	assert.False(t, wind.Known)
	assert.Equal(t, conditions.Placeholder, wind.Display)
	assert.Equal(t, conditions.Placeholder, wind.DisplayValue)
	assert.Equal(t, " km/h", wind.DisplayUnit)
	assert.InDelta(t, conditions.DialCircumference, wind.DashOffset, 1e-9)

	humidity := v.Gauges[3]
	assert.Equal(t, conditions.Humidity, humidity.Metric)
	assert.Equal(t, "100", humidity.Display)
}

func TestBuildHourViewImperial(t *testing.T) {
	v, err := BuildHourView(testForecast(1), 0, conditions.UnitsImperial)
	require.NoError(t, err)

	assert.Equal(t, "50.0°F", v.Temperature)
	assert.Equal(t, "32.0°F", v.DewPoint)
	assert.Equal(t, "3.1", v.Gauges[2].DisplayValue)
	assert.Equal(t, " mph", v.Gauges[2].DisplayUnit)
	// Ratings do not depend on display units.
	assert.Equal(t, "100", v.Gauges[2].Display)
}

func TestBuildHourViewUnknownTime(t *testing.T) {
	f := testForecast(2)
	f.Hourly.Time[1] = time.Time{}

	v, err := BuildHourView(f, 1, conditions.UnitsMetric)
	require.NoError(t, err)
	assert.Nil(t, v.Time)
	assert.Nil(t, v.Sky)
	assert.Equal(t, conditions.Placeholder, v.TimeLabel)
}

func TestBuildHourViewOutOfRange(t *testing.T) {
	f := testForecast(3)
	for _, h := range []int{-1, 3, 200} {
		_, err := BuildHourView(f, h, conditions.UnitsMetric)
		assert.ErrorIs(t, err, ErrHourOutOfRange, "hour %d", h)
	}
}

func TestBuildTimelinePadsToFullWindow(t *testing.T) {
	f := testForecast(30)
	f.Hourly.CloudCover[1] = nil

	tv := BuildTimeline(f)
	assert.Equal(t, "7-Day Overview", tv.Title)
	assert.Equal(t, uint64(42), tv.Seq)
	assert.Equal(t, "Green indicates great astronomy conditions.", tv.HelpText)
	assert.Equal(t, []string{"03/01", "03/02", "–", "–", "–", "–", "–"}, tv.DateLabels)

	require.Len(t, tv.Rows, 4)
	names := make([]string, 0, len(tv.Rows))
	for _, row := range tv.Rows {
		names = append(names, row.Name)
		assert.Len(t, row.Cells, conditions.SeriesHours)
		assert.NotEmpty(t, row.Icon)
	}
	assert.Equal(t, []string{"Clouds", "Seeing", "Wind", "Humidity"}, names)

	clouds := tv.Rows[0].Cells
	assert.Equal(t, conditions.BucketGood, clouds[0].Bucket)
	assert.Equal(t, "rgba(0, 255, 0, 0.7)", clouds[0].Color)
	assert.Equal(t, "2024-03-01 00:00\nclouds: 5%", clouds[0].Tooltip)

	assert.Equal(t, conditions.BucketPlaceholder, clouds[1].Bucket)
	assert.Equal(t, "2024-03-01 01:00\nclouds: --%", clouds[1].Tooltip)

	// Past the fetched hours everything is a placeholder.
	last := clouds[conditions.SeriesHours-1]
	assert.Equal(t, conditions.BucketPlaceholder, last.Bucket)
	assert.Equal(t, "rgba(128, 128, 128, 0.7)", last.Color)
	assert.True(t, strings.HasPrefix(last.Tooltip, conditions.Placeholder+"\n"))

	wind := tv.Rows[2].Cells
	// 100 - 5*3 = 85
	assert.Equal(t, conditions.BucketGood, wind[0].Bucket)
	assert.Equal(t, "2024-03-01 00:00\nwind: 5 km/h", wind[0].Tooltip)

	humidity := tv.Rows[3].Cells
	// 100 - 40 = 60
	assert.Equal(t, conditions.BucketModerate, humidity[0].Bucket)
}

func TestBuildTimelineEmptyForecast(t *testing.T) {
	tv := BuildTimeline(Forecast{})
	require.Len(t, tv.Rows, 4)
	for _, row := range tv.Rows {
		for _, c := range row.Cells {
			assert.Equal(t, conditions.BucketPlaceholder, c.Bucket)
		}
	}
	assert.Equal(t, []string{"–", "–", "–", "–", "–", "–", "–"}, tv.DateLabels)
}
