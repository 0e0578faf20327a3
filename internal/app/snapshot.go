package app

import (
	"github.com/i474232898/weather-dependencies/internal/location"
	"github.com/i474232898/weather-dependencies/internal/weather"
)

// LocateState tracks the "locate me" flow.
type LocateState int

const (
	LocateUnknown LocateState = iota
	LocateRequesting
	LocateAuthorized
	LocateDenied
)

func (s LocateState) String() string {
	switch s {
	case LocateRequesting:
		return "requesting"
	case LocateAuthorized:
		return "authorized"
	case LocateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

func (s LocateState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is the externally visible application state.
// WeatherResults is non-empty only while IsConnected.
type Snapshot struct {
	IsConnected     bool                 `json:"isConnected"`
	CurrentLocation *weather.Location    `json:"currentLocation"`
	WeatherResults  []weather.WeatherDay `json:"weatherResults"`

	Authorization      location.AuthorizationStatus `json:"authorization"`
	Locate             LocateState                  `json:"locate"`
	AuthorizationAlert string                       `json:"authorizationAlert,omitempty"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.CurrentLocation != nil {
		loc := *s.CurrentLocation
		out.CurrentLocation = &loc
	}
	out.WeatherResults = make([]weather.WeatherDay, len(s.WeatherResults))
	copy(out.WeatherResults, s.WeatherResults)
	return out
}
