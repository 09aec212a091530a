// Package geocode resolves place names to coordinates and back.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/astro-conditions/internal/common"
	"github.com/i474232898/astro-conditions/internal/weather"
)

// ErrNotFound is returned when nothing matches a query.
var ErrNotFound = errors.New("no matching place")

// Geocoder looks places up.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (Place, error)
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// Place is a resolved location with a human-readable address.
type Place struct {
	weather.Location
	Address string `json:"address"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
}

// Google geocodes through the Google Maps Geocoding API.
type Google struct {
	forward func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogle returns a Google geocoder using apiKey.
func NewGoogle(apiKey string) *Google {
	// The client library keeps its key in a package variable.
	geocoder.ApiKey = apiKey

	return &Google{
		forward: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

func (g *Google) Lookup(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}
	if err := ctx.Err(); err != nil {
		return Place{}, err
	}

	loc, err := g.forward(geocoder.Address{Street: query})
	if err != nil {
		return Place{}, mapError(query, err)
	}
	return Place{
		Location: weather.Location{Name: query, Lat: loc.Latitude, Lon: loc.Longitude},
		Address:  query,
	}, nil
}

func (g *Google) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	if err := ctx.Err(); err != nil {
		return Place{}, err
	}

	addrs, err := g.reverse(geocoder.Location{Latitude: lat, Longitude: lon})
	if err != nil {
		return Place{}, mapError(fmt.Sprintf("%f,%f", lat, lon), err)
	}
	if len(addrs) == 0 {
		return Place{}, ErrNotFound
	}

	a := addrs[0]
	name := a.City
	if name == "" {
		name = a.FormattedAddress
	}
	return Place{
		Location: weather.Location{Name: name, Lat: lat, Lon: lon},
		Address:  a.FormattedAddress,
		City:     a.City,
		Country:  a.Country,
	}, nil
}

func mapError(query string, err error) error {
	if common.HasAny(err.Error(), "ZERO_RESULTS", "no results") {
		return fmt.Errorf("%w: %s", ErrNotFound, query)
	}
	return fmt.Errorf("geocode %q: %w", query, err)
}
