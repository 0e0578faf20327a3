package weather

import (
	"context"
	"errors"

	"github.com/i474232898/weather-dependencies/internal/location"
)

var (
	// ErrNetwork covers transport failures and aborted requests.
	ErrNetwork = errors.New("weather: network error")
	// ErrDecode covers malformed payloads.
	ErrDecode = errors.New("weather: decode error")
	// ErrNotImplemented marks an operation a client deliberately does not provide.
	ErrNotImplemented = errors.New("weather: not implemented")
)

// Service is the weather capability. Each call yields a single result or a
// failure wrapping ErrNetwork or ErrDecode.
type Service interface {
	FetchWeather(ctx context.Context, locationID int) (WeatherResponse, error)
	// SearchLocations returns places near coord, nearest first. The result may be empty.
	SearchLocations(ctx context.Context, coord location.Coordinate) ([]Location, error)
}
