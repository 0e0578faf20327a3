// Package location exposes location authorization and position updates as a
// single stream of events.
package location

import (
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/weather-dependencies/internal/stream"
)

// ErrLocationUnknown is reported in a Failed event when no position could be resolved.
var ErrLocationUnknown = errors.New("location could not be resolved")

// AuthorizationStatus is the platform permission state for location access.
type AuthorizationStatus int

const (
	NotDetermined AuthorizationStatus = iota
	AuthorizedWhenInUse
	AuthorizedAlways
	Denied
	Restricted
)

var authorizationNames = map[AuthorizationStatus]string{
	NotDetermined:       "notDetermined",
	AuthorizedWhenInUse: "authorizedWhenInUse",
	AuthorizedAlways:    "authorizedAlways",
	Denied:              "denied",
	Restricted:          "restricted",
}

func (s AuthorizationStatus) String() string {
	if name, ok := authorizationNames[s]; ok {
		return name
	}
	return fmt.Sprintf("AuthorizationStatus(%d)", int(s))
}

// Authorized reports whether location may be requested.
func (s AuthorizationStatus) Authorized() bool {
	return s == AuthorizedWhenInUse || s == AuthorizedAlways
}

// Refused reports whether access was denied or restricted.
func (s AuthorizationStatus) Refused() bool {
	return s == Denied || s == Restricted
}

func (s AuthorizationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseAuthorizationStatus accepts the camelCase names, case-insensitively.
func ParseAuthorizationStatus(v string) (AuthorizationStatus, error) {
	for status, name := range authorizationNames {
		if strings.EqualFold(name, strings.TrimSpace(v)) {
			return status, nil
		}
	}
	return NotDetermined, fmt.Errorf("unknown authorization status %q", v)
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// EventKind tags an Event.
type EventKind int

const (
	EventAuthorizationChanged EventKind = iota
	EventLocationUpdated
	EventFailed
)

// Event is one delegate callback. Exactly the field matching Kind is set.
type Event struct {
	Kind        EventKind
	Status      AuthorizationStatus
	Coordinates []Coordinate
	Err         error
}

func AuthorizationChanged(status AuthorizationStatus) Event {
	return Event{Kind: EventAuthorizationChanged, Status: status}
}

// LocationUpdated carries one or more positions, most relevant first.
func LocationUpdated(coords ...Coordinate) Event {
	return Event{Kind: EventLocationUpdated, Coordinates: coords}
}

func Failed(err error) Event {
	return Event{Kind: EventFailed, Err: err}
}

// Provider is the location capability.
type Provider interface {
	// AuthorizationStatus returns the current status without side effects.
	AuthorizationStatus() AuthorizationStatus
	// RequestAuthorization asks for when-in-use access. It yields exactly one
	// AuthorizationChanged event.
	RequestAuthorization()
	// RequestLocation asks for a one-shot position. It yields LocationUpdated
	// events or a single Failed event.
	RequestLocation()
	// Events subscribes to the shared event stream.
	Events(fn func(Event)) stream.Cancel
}
