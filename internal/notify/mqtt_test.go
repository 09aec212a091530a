package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/astro-conditions/internal/conditions"
	"github.com/i474232898/astro-conditions/internal/weather"
)

func float(v float64) *float64 { return &v }

func testForecast() weather.Forecast {
	start := time.Date(2024, 9, 1, 20, 0, 0, 0, time.UTC)
	return weather.Forecast{
		Location: weather.Location{Name: "Roque", Lat: 28.7636, Lon: -17.8947},
		Seq:      9,
		Hourly: conditions.HourlySeries{
			Time:        []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour)},
			Temperature: []*float64{float(12), float(11), float(10)},
			DewPoint:    []*float64{float(2), float(2), float(2)},
			CloudCover:  []*float64{float(80), float(10), float(0)},
			WindSpeed:   []*float64{float(3), float(4), nil},
			Humidity:    []*float64{float(50), float(50), float(50)},
			Seeing:      []*float64{float(70), float(72), nil},
		},
	}
}

func TestMessageSummarisesCurrentHour(t *testing.T) {
	f := testForecast()
	now := time.Date(2024, 9, 1, 21, 30, 0, 0, time.UTC)

	topic, data, err := Message("astro/conditions/", f, now)
	require.NoError(t, err)
	assert.Equal(t, "astro/conditions/28.7636,-17.8947", topic)

	var s Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, uint64(9), s.Seq)
	assert.Equal(t, 1, s.Hour)
	require.NotNil(t, s.Time)
	assert.True(t, s.Time.Equal(f.Hourly.Time[1]))

	require.Len(t, s.Ratings, 4)
	assert.Equal(t, conditions.Clouds, s.Ratings[0].Metric)
	require.NotNil(t, s.Ratings[0].Rating)
	assert.Equal(t, 80.0, *s.Ratings[0].Rating)
	assert.Equal(t, "Great", s.Ratings[0].Descriptor)
}

func TestMessageUnknownSamplesCarryNoRating(t *testing.T) {
	f := testForecast()
	now := time.Date(2024, 9, 1, 22, 0, 0, 0, time.UTC)

	_, data, err := Message("astro", f, now)
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, 2, s.Hour)
	assert.Nil(t, s.Ratings[1].Rating)
	assert.Empty(t, s.Ratings[1].Class)
	assert.Nil(t, s.Ratings[2].Rating)
}

func TestMessageOutsideWindowUsesFirstHour(t *testing.T) {
	f := testForecast()
	_, data, err := Message("astro", f, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, 0, s.Hour)
}

func TestMessageEmptyForecast(t *testing.T) {
	_, data, err := Message("astro", weather.Forecast{}, time.Now())
	require.NoError(t, err)

	var s Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Empty(t, s.Ratings)
}

func TestPublishRequiresConnection(t *testing.T) {
	p := NewPublisher(Config{Broker: "tcp://127.0.0.1:1", Topic: "astro", ClientID: "test"},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := p.Publish(context.Background(), testForecast())
	assert.Error(t, err)
	p.Disconnect()
	assert.Error(t, p.Connect(context.Background()))
}
