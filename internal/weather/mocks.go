package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/i474232898/weather-dependencies/internal/location"
)

// Mock is a Service assembled from closures. A nil closure returns an empty
// result.
type Mock struct {
	FetchWeatherFunc    func(ctx context.Context, locationID int) (WeatherResponse, error)
	SearchLocationsFunc func(ctx context.Context, coord location.Coordinate) ([]Location, error)
}

func (m Mock) FetchWeather(ctx context.Context, locationID int) (WeatherResponse, error) {
	if m.FetchWeatherFunc == nil {
		return WeatherResponse{}, nil
	}
	return m.FetchWeatherFunc(ctx, locationID)
}

func (m Mock) SearchLocations(ctx context.Context, coord location.Coordinate) ([]Location, error) {
	if m.SearchLocationsFunc == nil {
		return nil, nil
	}
	return m.SearchLocationsFunc(ctx, coord)
}

// Empty returns no days and no locations, immediately.
func Empty() Mock {
	return Mock{
		FetchWeatherFunc: func(context.Context, int) (WeatherResponse, error) {
			return WeatherResponse{Days: []WeatherDay{}}, nil
		},
		SearchLocationsFunc: func(context.Context, location.Coordinate) ([]Location, error) {
			return []Location{}, nil
		},
	}
}

// HappyPath returns a two day forecast starting today and a single location.
func HappyPath() Mock {
	now := time.Now()
	return Mock{
		FetchWeatherFunc: func(context.Context, int) (WeatherResponse, error) {
			return WeatherResponse{Days: []WeatherDay{
				{Date: DateOf(now), ID: 1, MaxTemp: 30, MinTemp: 10, CurrentTemp: 20},
				{Date: DateOf(now.Add(24 * time.Hour)), ID: 2, MaxTemp: -10, MinTemp: -30, CurrentTemp: -20},
			}}, nil
		},
		SearchLocationsFunc: func(context.Context, location.Coordinate) ([]Location, error) {
			return []Location{{Title: "Brooklyn", ID: 1}}, nil
		},
	}
}

// Failed fails every call immediately.
func Failed() Mock {
	return Mock{
		FetchWeatherFunc: func(context.Context, int) (WeatherResponse, error) {
			return WeatherResponse{}, fmt.Errorf("%w: mock failure", ErrNetwork)
		},
		SearchLocationsFunc: func(context.Context, location.Coordinate) ([]Location, error) {
			return nil, fmt.Errorf("%w: mock failure", ErrNetwork)
		},
	}
}

// Unimplemented panics on any call. Use it to assert a code path never
// reaches the weather service.
func Unimplemented() Mock {
	return Mock{
		FetchWeatherFunc: func(context.Context, int) (WeatherResponse, error) {
			panic("weather: FetchWeather is unimplemented")
		},
		SearchLocationsFunc: func(context.Context, location.Coordinate) ([]Location, error) {
			panic("weather: SearchLocations is unimplemented")
		},
	}
}
