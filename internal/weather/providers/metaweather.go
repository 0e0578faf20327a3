package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/i474232898/weather-dependencies/internal/httpclient"
	"github.com/i474232898/weather-dependencies/internal/location"
	"github.com/i474232898/weather-dependencies/internal/weather"
)

// DefaultMetaWeatherURL is the API root the live client talks to.
const DefaultMetaWeatherURL = "https://www.metaweather.com/api"

// MetaWeather implements weather.Service over the MetaWeather JSON API.
// Reverse location search is not provided; see GeocodedSearch.
type MetaWeather struct {
	baseURL string
	client  *httpclient.Client
}

func NewMetaWeather(client *httpclient.Client, baseURL string) *MetaWeather {
	if baseURL == "" {
		baseURL = DefaultMetaWeatherURL
	}
	return &MetaWeather{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// FetchWeather issues GET {base}/location/{id}.
func (p *MetaWeather) FetchWeather(ctx context.Context, locationID int) (weather.WeatherResponse, error) {
	u := fmt.Sprintf("%s/location/%d", p.baseURL, locationID)

	resp, err := p.client.Get(ctx, u)
	if err != nil {
		return weather.WeatherResponse{}, networkError(err)
	}
	defer resp.Body.Close()

	return weather.DecodeResponse(resp.Body)
}

// SearchLocations fails immediately: the live client has no reverse search.
func (p *MetaWeather) SearchLocations(context.Context, location.Coordinate) ([]weather.Location, error) {
	return nil, fmt.Errorf("%w: metaweather reverse location search", weather.ErrNotImplemented)
}

// SearchByName issues GET {base}/location/search/?query=name.
func (p *MetaWeather) SearchByName(ctx context.Context, name string) ([]weather.Location, error) {
	values := url.Values{}
	values.Set("query", name)
	u := fmt.Sprintf("%s/location/search/?%s", p.baseURL, values.Encode())

	resp, err := p.client.Get(ctx, u)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	return weather.DecodeLocations(resp.Body)
}

func networkError(err error) error {
	if errors.Is(err, weather.ErrNetwork) {
		return err
	}
	return fmt.Errorf("%w: %w", weather.ErrNetwork, err)
}
