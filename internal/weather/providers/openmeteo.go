package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/astro-conditions/internal/conditions"
	"github.com/i474232898/astro-conditions/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultOpenMeteoURL is the public Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

const (
	openMeteoHourly     = "temperature_2m,cloudcover,relative_humidity_2m,dew_point_2m,windspeed_10m"
	openMeteoTimeLayout = "2006-01-02T15:04"
)

// OpenMeteoProvider implements the weather.ForecastProvider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// OpenMeteoOption configures an OpenMeteoProvider.
type OpenMeteoOption func(*OpenMeteoProvider)

// WithBackoff overrides the retry schedule.
func WithBackoff(b BackoffConfig) OpenMeteoOption {
	return func(p *OpenMeteoProvider) { p.httpCfg.Backoff = b }
}

// NewOpenMeteoProvider returns a provider talking to baseURL. An empty baseURL
// selects DefaultOpenMeteoURL.
func NewOpenMeteoProvider(client *http.Client, baseURL string, opts ...OpenMeteoOption) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	p := &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoResponse struct {
	UTCOffsetSeconds     int    `json:"utc_offset_seconds"`
	Timezone             string `json:"timezone"`
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	Hourly               struct {
		Time        []string   `json:"time"`
		Temperature []*float64 `json:"temperature_2m"`
		CloudCover  []*float64 `json:"cloudcover"`
		Humidity    []*float64 `json:"relative_humidity_2m"`
		DewPoint    []*float64 `json:"dew_point_2m"`
		WindSpeed   []*float64 `json:"windspeed_10m"`
	} `json:"hourly"`
}

// FetchHourly requests the hourly variables for the seven-day window of q.
// Times are interpreted in the location's own time zone as reported by the API.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, q weather.Query) (conditions.HourlySeries, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", q.Location.Lat))
		values.Set("longitude", fmt.Sprintf("%f", q.Location.Lon))
		values.Set("hourly", openMeteoHourly)
		values.Set("timezone", "auto")
		values.Set("start_date", q.StartDate.Format(weather.DateLayout))
		values.Set("end_date", q.EndDate().Format(weather.DateLayout))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return conditions.HourlySeries{}, err
	}
	defer resp.Body.Close()

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return conditions.HourlySeries{}, fmt.Errorf("decode openmeteo response: %w", err)
	}

	loc := payload.location()
	times := make([]time.Time, len(payload.Hourly.Time))
	for i, s := range payload.Hourly.Time {
		t, err := time.ParseInLocation(openMeteoTimeLayout, s, loc)
		if err != nil {
			return conditions.HourlySeries{}, fmt.Errorf("openmeteo hour %d: %w", i, err)
		}
		times[i] = t
	}

	series := conditions.HourlySeries{
		Time:        times,
		Temperature: payload.Hourly.Temperature,
		DewPoint:    payload.Hourly.DewPoint,
		CloudCover:  payload.Hourly.CloudCover,
		WindSpeed:   payload.Hourly.WindSpeed,
		Humidity:    payload.Hourly.Humidity,
	}
	if err := series.Validate(); err != nil {
		return conditions.HourlySeries{}, fmt.Errorf("openmeteo: %w", err)
	}
	return series, nil
}

// location prefers the IANA zone so that DST changes inside the window are
// honoured, and falls back to the fixed offset the API reported.
func (r openMeteoResponse) location() *time.Location {
	if r.Timezone != "" {
		if l, err := time.LoadLocation(r.Timezone); err == nil {
			return l
		}
	}
	return time.FixedZone(r.TimezoneAbbreviation, r.UTCOffsetSeconds)
}
