package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dependencies/internal/api/http"
	"github.com/i474232898/weather-dependencies/internal/app"
	"github.com/i474232898/weather-dependencies/internal/config"
	"github.com/i474232898/weather-dependencies/internal/connectivity"
	"github.com/i474232898/weather-dependencies/internal/dispatch"
	"github.com/i474232898/weather-dependencies/internal/httpclient"
	"github.com/i474232898/weather-dependencies/internal/location"
	"github.com/i474232898/weather-dependencies/internal/store"
	"github.com/i474232898/weather-dependencies/internal/weather"
	"github.com/i474232898/weather-dependencies/internal/weather/providers"
)

func main() {
	// Load configuration (.env is read by config.Load).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	authorization, err := cfg.Authorization()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Every AppState handler runs on this queue.
	queue := dispatch.NewSerial()

	// Weather service with a circuit breaker. Location search needs a
	// geocoder key; without one it reports ErrNotImplemented.
	metaWeather := providers.NewMetaWeather(httpclient.New(httpClient, "metaweather"), cfg.WeatherBaseURL)
	var service weather.Service = metaWeather
	if cfg.GeocoderAPIKey != "" {
		geo, err := providers.NewGoogleGeocoder(cfg.GeocoderAPIKey)
		if err != nil {
			log.Fatalf("failed to configure geocoder: %v", err)
		}
		service = providers.NewGeocodedSearch(metaWeather, geo)
		log.Println("INFO: location search enabled via reverse geocoding")
	}

	monitor := connectivity.NewProbeMonitor(connectivity.ProbeConfig{
		Addr:     cfg.ProbeAddr,
		Interval: cfg.ProbeInterval,
		Timeout:  cfg.ProbeTimeout,
	}, queue)

	locator := location.NewIPProvider(location.IPConfig{
		URL:     cfg.LocationIPURL,
		Initial: authorization,
		Grant:   cfg.LocationGrant,
		Static:  cfg.StaticCoordinate(),
		Timeout: cfg.HTTPTimeout,
	}, httpclient.New(httpClient, "ip-geolocation"), queue)

	state := app.New(app.Dependencies{
		Weather:      service,
		Connectivity: monitor,
		Location:     locator,
		Queue:        queue,
	})

	// Snapshot history with configured retention.
	history := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	unsubscribe := state.Subscribe(history.Save)

	// Basic app configuration
	server := fiber.New(fiber.Config{
		AppName:               "weather-dependencies",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	server.Use(logger.New())
	server.Use(recover.New())

	server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dependencies",
		})
	})

	httpapi.RegisterRoutes(server, state, history, service)

	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}

	unsubscribe()
	state.Close()
	queue.Close()
}
