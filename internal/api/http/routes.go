package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	appstate "github.com/i474232898/weather-dependencies/internal/app"
	"github.com/i474232898/weather-dependencies/internal/store"
	"github.com/i474232898/weather-dependencies/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, state *appstate.AppState, history *store.MemoryStore, service weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(renderState(state.Snapshot()))
	})

	v1.Get("/state/history", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"records": history.All(),
		})
	})

	v1.Post("/location/locate", func(c *fiber.Ctx) error {
		if err := state.LocateMe(); err != nil {
			if errors.Is(err, appstate.ErrAuthorizationDenied) {
				return fiber.NewError(fiber.StatusForbidden, "location access denied")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to locate")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "locating"})
	})

	v1.Get("/locations/:id/weather", func(c *fiber.Ctx) error {
		var req weatherQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := service.FetchWeather(c.UserContext(), req.ID)
		if err != nil {
			if errors.Is(err, weather.ErrNetwork) || errors.Is(err, weather.ErrDecode) {
				return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(fiber.Map{
			"locationId": req.ID,
			"forecast":   renderDays(resp.Days),
		})
	})
}

// weatherQuery holds the path parameters for the weather endpoint.
type weatherQuery struct {
	ID int `validate:"required,gt=0"`
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return errors.New("id must be an integer")
	}
	q.ID = id
	return validate.Struct(q)
}

// forecastRow is one rendered forecast day.
type forecastRow struct {
	weather.WeatherDay
	DayOfWeek string `json:"dayOfWeek"`
	Current   string `json:"current"`
	Max       string `json:"max"`
	Min       string `json:"min"`
}

func renderDays(days []weather.WeatherDay) []forecastRow {
	rows := make([]forecastRow, 0, len(days))
	for _, d := range days {
		rows = append(rows, forecastRow{
			WeatherDay: d,
			DayOfWeek:  d.DayOfWeek(),
			Current:    weather.FormatTemp(d.CurrentTemp),
			Max:        weather.FormatTemp(d.MaxTemp),
			Min:        weather.FormatTemp(d.MinTemp),
		})
	}
	return rows
}

func renderState(snap appstate.Snapshot) fiber.Map {
	title := "Weather"
	if snap.CurrentLocation != nil {
		title = snap.CurrentLocation.Title
	}

	banner := ""
	if !snap.IsConnected {
		banner = "Not connected to internet"
	}

	return fiber.Map{
		"title":    title,
		"banner":   banner,
		"state":    snap,
		"forecast": renderDays(snap.WeatherResults),
	}
}
