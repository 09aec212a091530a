package httpapi

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/astro-conditions/internal/conditions"
	"github.com/i474232898/astro-conditions/internal/geocode"
	"github.com/i474232898/astro-conditions/internal/store"
	"github.com/i474232898/astro-conditions/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app. geo may be nil,
// in which case the geocoding endpoints answer 501.
func RegisterRoutes(app *fiber.App, service *weather.Service, geo geocode.Geocoder) {
	v1 := app.Group("/api/v1")

	v1.Get("/days", func(c *fiber.Ctx) error {
		return c.JSON(weather.DayOptions(time.Now()))
	})

	v1.Post("/forecast", func(c *fiber.Ctx) error {
		var req forecastRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		start, err := weather.ParseStartDate(req.Date, time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date; use YYYY-MM-DD")
		}

		loc := weather.Location{Name: req.Name, Lat: *req.Lat, Lon: *req.Lon}
		f, err := service.Refresh(c.UserContext(), weather.Query{Location: loc, StartDate: start})
		if err != nil {
			if errors.Is(err, weather.ErrUpstream) {
				return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch weather data")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to refresh forecast")
		}
		return c.JSON(f)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		f, err := service.Latest(c.UserContext(), loc)
		if err != nil {
			return storeError(err)
		}
		return c.JSON(f)
	})

	v1.Get("/conditions", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		hour, err := parseIntQuery(c, "hour", 0)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units, err := conditions.ParseUnits(c.Query("units"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Hour(c.UserContext(), loc, hour, units)
		if err != nil {
			if errors.Is(err, weather.ErrHourOutOfRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return storeError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/timeline", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		view, err := service.Timeline(c.UserContext(), loc)
		if err != nil {
			return storeError(err)
		}
		return c.JSON(view)
	})

	v1.Get("/rate", func(c *fiber.Ctx) error {
		m, err := conditions.ParseMetric(c.Query("metric"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		value, err := parseFloatQuery(c, "value")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if value == nil {
			return fiber.NewError(fiber.StatusBadRequest, "value query parameter is required")
		}
		units, err := conditions.ParseUnits(c.Query("units"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(conditions.NewGauge(m, value, units))
	})

	v1.Get("/geocode", func(c *fiber.Ctx) error {
		if geo == nil {
			return fiber.NewError(fiber.StatusNotImplemented, "geocoding is not configured")
		}
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		place, err := geo.Lookup(c.UserContext(), q)
		if err != nil {
			return geocodeError(err)
		}
		return c.JSON(place)
	})

	v1.Get("/geocode/reverse", func(c *fiber.Ctx) error {
		if geo == nil {
			return fiber.NewError(fiber.StatusNotImplemented, "geocoding is not configured")
		}
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		place, err := geo.Reverse(c.UserContext(), loc.Lat, loc.Lon)
		if err != nil {
			return geocodeError(err)
		}
		return c.JSON(place)
	})
}

// forecastRequest is the body of POST /forecast.
type forecastRequest struct {
	Lat  *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lon  *float64 `json:"lon" validate:"required,min=-180,max=180"`
	Date string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Name string   `json:"name" validate:"max=200"`
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	Lat  *float64 `validate:"required,min=-90,max=90"`
	Lon  *float64 `validate:"required,min=-180,max=180"`
	Name string
}

func parseLocationQuery(c *fiber.Ctx) (weather.Location, error) {
	var q locationQuery
	var err error

	if q.Lat, err = parseFloatQuery(c, "lat"); err != nil {
		return weather.Location{}, err
	}
	if q.Lon, err = parseFloatQuery(c, "lon"); err != nil {
		return weather.Location{}, err
	}
	q.Name = c.Query("name")

	if err := validate.Struct(q); err != nil {
		return weather.Location{}, err
	}
	return weather.Location{Name: q.Name, Lat: *q.Lat, Lon: *q.Lon}, nil
}

// parseFloatQuery returns nil when the parameter is absent.
func parseFloatQuery(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("invalid " + key + "; must be a number")
	}
	return &v, nil
}

func parseIntQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + key + "; must be an integer")
	}
	return v, nil
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no forecast for requested location")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to load forecast")
}

func geocodeError(err error) error {
	if errors.Is(err, geocode.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no matching place")
	}
	return fiber.NewError(fiber.StatusBadGateway, "geocoding failed")
}
