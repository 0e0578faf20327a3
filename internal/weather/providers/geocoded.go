package providers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dependencies/internal/location"
	"github.com/i474232898/weather-dependencies/internal/weather"
)

var errNoAPIKey = errors.New("geocoder api key is not configured")

var (
	_ weather.Service = (*MetaWeather)(nil)
	_ weather.Service = (*GeocodedSearch)(nil)
)

// ReverseGeocoder resolves a coordinate to a place name suitable for a
// location search. An empty name means nothing was found.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, coord location.Coordinate) (string, error)
}

// GoogleGeocoder reverse geocodes through the Google Geocoding API.
type GoogleGeocoder struct{}

var setAPIKey sync.Once

// NewGoogleGeocoder configures the geocoding package with apiKey. The key is
// process-wide; only the first call sets it.
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, errNoAPIKey
	}
	setAPIKey.Do(func() { geocoder.ApiKey = apiKey })
	return &GoogleGeocoder{}, nil
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, coord location.Coordinate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
	})
	if err != nil {
		return "", err
	}

	for _, a := range addresses {
		switch {
		case a.City != "":
			return a.City, nil
		case a.County != "":
			return a.County, nil
		case a.State != "":
			return a.State, nil
		}
	}
	return "", nil
}

// GeocodedSearch is a MetaWeather client whose SearchLocations reverse
// geocodes the coordinate and searches locations by the resulting name.
type GeocodedSearch struct {
	*MetaWeather
	geocoder ReverseGeocoder
}

func NewGeocodedSearch(mw *MetaWeather, g ReverseGeocoder) *GeocodedSearch {
	return &GeocodedSearch{MetaWeather: mw, geocoder: g}
}

func (s *GeocodedSearch) SearchLocations(ctx context.Context, coord location.Coordinate) ([]weather.Location, error) {
	name, err := s.geocoder.ReverseGeocode(ctx, coord)
	if err != nil {
		return nil, networkError(fmt.Errorf("reverse geocode: %w", err))
	}
	if name == "" {
		log.Printf("DEBUG: geocoder: no place found for %.4f,%.4f", coord.Latitude, coord.Longitude)
		return []weather.Location{}, nil
	}

	return s.SearchByName(ctx, name)
}
