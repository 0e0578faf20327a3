package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstate "github.com/i474232898/weather-dependencies/internal/app"
	"github.com/i474232898/weather-dependencies/internal/connectivity"
	"github.com/i474232898/weather-dependencies/internal/location"
	"github.com/i474232898/weather-dependencies/internal/store"
	"github.com/i474232898/weather-dependencies/internal/weather"
)

func newTestApp(t *testing.T, provider location.Provider, service weather.Mock) (*fiber.App, *appstate.AppState, *store.MemoryStore) {
	t.Helper()

	history := store.NewMemoryStore(10, time.Hour)
	state := appstate.New(appstate.Dependencies{
		Weather:      service,
		Connectivity: connectivity.Satisfied(),
		Location:     provider,
	})
	state.Subscribe(history.Save)
	t.Cleanup(state.Close)

	app := fiber.New()
	RegisterRoutes(app, state, history, service)
	return app, state, history
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestStateEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t, location.MockAuthorizedWhenInUse(), weather.HappyPath())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Brooklyn", body["title"])
	assert.Equal(t, "", body["banner"])

	forecast, ok := body["forecast"].([]any)
	require.True(t, ok)
	require.Len(t, forecast, 2)

	first := forecast[0].(map[string]any)
	assert.Equal(t, "30.0°C", first["max"])
	assert.Equal(t, "10.0°C", first["min"])
	assert.Equal(t, "20.0°C", first["current"])
}

func TestStateEndpointBeforeLocating(t *testing.T) {
	app, _, _ := newTestApp(t, location.MockNotDetermined(), weather.Unimplemented())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	require.NoError(t, err)

	body := decode(t, resp)
	assert.Equal(t, "Weather", body["title"])
	assert.Empty(t, body["forecast"])
}

func TestLocateEndpoint(t *testing.T) {
	app, state, _ := newTestApp(t, location.MockNotDetermined(), weather.HappyPath())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/location/locate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	snap := state.Snapshot()
	require.NotNil(t, snap.CurrentLocation)
	assert.Equal(t, "Brooklyn", snap.CurrentLocation.Title)
	assert.Len(t, snap.WeatherResults, 2)
}

func TestLocateEndpointDenied(t *testing.T) {
	app, state, _ := newTestApp(t, location.MockNotDeterminedDenied(), weather.Unimplemented())

	// The first request asks for access and is refused asynchronously.
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/location/locate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/location/locate", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	snap := state.Snapshot()
	assert.Equal(t, location.Denied, snap.Authorization)
	assert.Equal(t, "Please give us location access", snap.AuthorizationAlert)
	assert.Nil(t, snap.CurrentLocation)
}

func TestHistoryEndpoint(t *testing.T) {
	app, _, history := newTestApp(t, location.MockNotDetermined(), weather.HappyPath())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/location/locate", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/state/history", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	records, ok := body["records"].([]any)
	require.True(t, ok)
	assert.Len(t, records, len(history.All()))
	assert.NotEmpty(t, records)
}

func TestWeatherEndpointValidation(t *testing.T) {
	app, _, _ := newTestApp(t, location.MockNotDetermined(), weather.HappyPath())

	for _, path := range []string{
		"/api/v1/locations/0/weather",
		"/api/v1/locations/-3/weather",
		"/api/v1/locations/brooklyn/weather",
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestWeatherEndpoint(t *testing.T) {
	app, _, _ := newTestApp(t, location.MockNotDetermined(), weather.HappyPath())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/locations/2487956/weather", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.EqualValues(t, 2487956, body["locationId"])

	forecast := body["forecast"].([]any)
	require.Len(t, forecast, 2)
	second := forecast[1].(map[string]any)
	assert.Equal(t, "-10.0°C", second["max"])
	assert.EqualValues(t, 2, second["id"])
}

func TestWeatherEndpointUpstreamFailure(t *testing.T) {
	app, _, _ := newTestApp(t, location.MockNotDetermined(), weather.Failed())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/locations/1/weather", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
