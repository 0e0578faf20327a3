package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dependencies/internal/location"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "1.1.1.1:53", cfg.ProbeAddr)
	assert.Equal(t, 15*time.Second, cfg.ProbeInterval)
	assert.Equal(t, 100, cfg.StoreMaxHistory)
	assert.Nil(t, cfg.StaticCoordinate())

	status, err := cfg.Authorization()
	require.NoError(t, err)
	assert.Equal(t, location.NotDetermined, status)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOCATION_AUTHORIZATION", "authorizedWhenInUse")
	t.Setenv("LOCATION_LAT", "40.6782")
	t.Setenv("LOCATION_LON", "-73.9442")
	t.Setenv("CONNECTIVITY_PROBE_INTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Minute, cfg.ProbeInterval)
	assert.Equal(t, &location.Coordinate{Latitude: 40.6782, Longitude: -73.9442}, cfg.StaticCoordinate())

	status, err := cfg.Authorization()
	require.NoError(t, err)
	assert.Equal(t, location.AuthorizedWhenInUse, status)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string][2]string{
		"bad authorization": {"LOCATION_AUTHORIZATION", "sometimes"},
		"bad latitude":      {"LOCATION_LAT", "123"},
		"lat without lon":   {"LOCATION_LAT", "10"},
		"bad interval":      {"CONNECTIVITY_PROBE_INTERVAL", "soon"},
		"bad probe addr":    {"CONNECTIVITY_PROBE_ADDR", "nowhere"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if kv[0] == "LOCATION_LAT" && kv[1] == "123" {
				t.Setenv("LOCATION_LON", "0")
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
