package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/i474232898/weather-dependencies/internal/location"
)

type AppConfig struct {
	Port        string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`

	WeatherBaseURL string `envconfig:"WEATHER_BASE_URL" default:"https://www.metaweather.com/api" validate:"required,url"`
	// GeocoderAPIKey enables reverse location search when set.
	GeocoderAPIKey string `envconfig:"GEOCODER_API_KEY"`

	ProbeAddr     string        `envconfig:"CONNECTIVITY_PROBE_ADDR" default:"1.1.1.1:53" validate:"required,hostname_port"`
	ProbeInterval time.Duration `envconfig:"CONNECTIVITY_PROBE_INTERVAL" default:"15s" validate:"gt=0"`
	ProbeTimeout  time.Duration `envconfig:"CONNECTIVITY_PROBE_TIMEOUT" default:"3s" validate:"gt=0"`

	// LocationAuthorization is the status reported at startup.
	LocationAuthorization string `envconfig:"LOCATION_AUTHORIZATION" default:"notDetermined" validate:"required"`
	// LocationGrant answers a pending authorization request.
	LocationGrant bool   `envconfig:"LOCATION_GRANT" default:"true"`
	LocationIPURL string `envconfig:"LOCATION_IP_URL" default:"http://ip-api.com/json/" validate:"required,url"`
	// LocationLat/LocationLon pin the reported position when both are set.
	LocationLat *float64 `envconfig:"LOCATION_LAT" validate:"omitempty,latitude"`
	LocationLon *float64 `envconfig:"LOCATION_LON" validate:"omitempty,longitude"`

	// In-memory snapshot history retention.
	StoreMaxHistory int           `envconfig:"STORE_MAX_HISTORY" default:"100" validate:"gte=0"` // 0 = unlimited
	StoreMaxAge     time.Duration `envconfig:"STORE_MAX_AGE" default:"24h" validate:"gte=0"`     // 0 = unlimited
}

var validate = validator.New()

// Load reads configuration from the environment (and .env, if present) with
// sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if (cfg.LocationLat == nil) != (cfg.LocationLon == nil) {
		return nil, fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}
	if _, err := cfg.Authorization(); err != nil {
		return nil, fmt.Errorf("invalid LOCATION_AUTHORIZATION: %w", err)
	}

	return cfg, nil
}

// Authorization parses LocationAuthorization.
func (c *AppConfig) Authorization() (location.AuthorizationStatus, error) {
	return location.ParseAuthorizationStatus(c.LocationAuthorization)
}

// StaticCoordinate returns the pinned position, if configured.
func (c *AppConfig) StaticCoordinate() *location.Coordinate {
	if c.LocationLat == nil || c.LocationLon == nil {
		return nil
	}
	return &location.Coordinate{Latitude: *c.LocationLat, Longitude: *c.LocationLon}
}
