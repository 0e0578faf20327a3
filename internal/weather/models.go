package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time of day. It is stored as midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the given calendar date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Location is a resolved place. ID is the upstream "where on earth" id.
type Location struct {
	Title string `json:"title"`
	ID    int    `json:"id"`
}

// WeatherDay is one calendar day's temperature summary, in °C.
type WeatherDay struct {
	Date        Date    `json:"date"`
	ID          int     `json:"id"`
	MaxTemp     float64 `json:"maxTemp"`
	MinTemp     float64 `json:"minTemp"`
	CurrentTemp float64 `json:"currentTemp"`
}

// DayOfWeek is the weekday label shown for the day, e.g. "Friday".
func (d WeatherDay) DayOfWeek() string {
	return d.Date.Weekday().String()
}

// WeatherResponse is a forecast, today first.
type WeatherResponse struct {
	Days []WeatherDay `json:"days"`
}

// wireDay and wireResponse mirror the upstream snake_case payload. Every
// modeled key is required; pointers tell a missing key from a zero value.
type wireDay struct {
	ApplicableDate *Date    `json:"applicable_date" validate:"required"`
	ID             *int     `json:"id" validate:"required"`
	MaxTemp        *float64 `json:"max_temp" validate:"required"`
	MinTemp        *float64 `json:"min_temp" validate:"required"`
	TheTemp        *float64 `json:"the_temp" validate:"required"`
}

type wireResponse struct {
	ConsolidatedWeather []wireDay `json:"consolidated_weather" validate:"required,dive"`
}

type wireLocation struct {
	Title *string `json:"title" validate:"required"`
	WOEID *int    `json:"woeid" validate:"required"`
}

var validate = validator.New()

// DecodeResponse decodes an upstream forecast payload. Any malformed input,
// including a bad date or a missing key, is reported as ErrDecode.
func DecodeResponse(r io.Reader) (WeatherResponse, error) {
	var payload wireResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return WeatherResponse{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate.Struct(payload); err != nil {
		return WeatherResponse{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	days := make([]WeatherDay, 0, len(payload.ConsolidatedWeather))
	for _, w := range payload.ConsolidatedWeather {
		days = append(days, WeatherDay{
			Date:        *w.ApplicableDate,
			ID:          *w.ID,
			MaxTemp:     *w.MaxTemp,
			MinTemp:     *w.MinTemp,
			CurrentTemp: *w.TheTemp,
		})
	}
	return WeatherResponse{Days: days}, nil
}

// DecodeLocations decodes an upstream location search payload.
func DecodeLocations(r io.Reader) ([]Location, error) {
	var payload []wireLocation
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: missing location list", ErrDecode)
	}

	locs := make([]Location, 0, len(payload))
	for _, l := range payload {
		if err := validate.Struct(l); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		locs = append(locs, Location{Title: *l.Title, ID: *l.WOEID})
	}
	return locs, nil
}

// FormatTemp renders a temperature the way forecast rows show it.
func FormatTemp(c float64) string {
	return fmt.Sprintf("%.1f°C", c)
}
