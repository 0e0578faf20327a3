// Package app merges connectivity, location and weather into one observable
// application state.
package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dependencies/internal/connectivity"
	"github.com/i474232898/weather-dependencies/internal/dispatch"
	"github.com/i474232898/weather-dependencies/internal/location"
	"github.com/i474232898/weather-dependencies/internal/stream"
	"github.com/i474232898/weather-dependencies/internal/weather"
)

// ErrAuthorizationDenied is returned by LocateMe when location access was
// denied or restricted. It is terminal; nothing is retried.
var ErrAuthorizationDenied = errors.New("location access denied")

const deniedAlert = "Please give us location access"

// Dependencies are the capabilities AppState is composed from.
type Dependencies struct {
	Weather      weather.Service
	Connectivity connectivity.Monitor
	Location     location.Provider
	// Queue is the context all handlers run on. Nil means dispatch.Immediate.
	Queue dispatch.Queue
}

// AppState owns the current location and forecast. Every field below mu is
// touched only from the queue, so handlers need no locking.
type AppState struct {
	weather  weather.Service
	monitor  connectivity.Monitor
	location location.Provider
	queue    dispatch.Queue

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	published Snapshot
	observers *stream.Subject[Snapshot]

	isConnected     bool
	lastStatus      *connectivity.Status
	currentLocation *weather.Location
	weatherResults  []weather.WeatherDay
	authorization   location.AuthorizationStatus
	locate          LocateState
	alert           string

	weatherGen uint64
	searchGen  uint64
	closed     bool

	pathCancel     stream.Cancel
	locationCancel stream.Cancel
}

// New subscribes to connectivity and location, in that order, and requests a
// location right away if access is already granted.
func New(deps Dependencies) *AppState {
	queue := deps.Queue
	if queue == nil {
		queue = dispatch.Immediate{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &AppState{
		weather:        deps.Weather,
		monitor:        deps.Connectivity,
		location:       deps.Location,
		queue:          queue,
		ctx:            ctx,
		cancel:         cancel,
		observers:      stream.NewSubject[Snapshot](),
		isConnected:    true,
		weatherResults: []weather.WeatherDay{},
	}
	s.published = s.current()

	queue.Post(s.start)
	return s
}

func (s *AppState) start() {
	s.pathCancel = s.monitor.Observe(s.handlePath)
	s.locationCancel = s.location.Events(s.handleLocationEvent)

	status := s.location.AuthorizationStatus()
	s.authorization = status
	switch {
	case status.Authorized():
		s.locate = LocateAuthorized
		s.publish()
		s.location.RequestLocation()
	case status.Refused():
		s.locate = LocateDenied
		s.publish()
	default:
		s.publish()
	}
}

// LocateMe is the "locate me" trigger. It requests authorization when the
// status is undetermined, a location when authorized, and returns
// ErrAuthorizationDenied otherwise. The status is read once, so the returned
// error and the published state always agree.
func (s *AppState) LocateMe() error {
	status := s.location.AuthorizationStatus()
	s.queue.Post(func() { s.handleLocate(status) })

	if status.Refused() {
		return ErrAuthorizationDenied
	}
	return nil
}

func (s *AppState) handleLocate(status location.AuthorizationStatus) {
	if s.closed {
		return
	}

	switch {
	case status.Refused():
		s.authorization = status
		s.locate = LocateDenied
		s.alert = deniedAlert
		s.publish()
	case status == location.NotDetermined:
		s.locate = LocateRequesting
		s.publish()
		s.location.RequestAuthorization()
	case status.Authorized():
		s.location.RequestLocation()
	}
}

// Snapshot returns a copy of the last published state. It is safe to call
// from any goroutine.
func (s *AppState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.published.Clone()
}

// Subscribe registers fn for every published change. fn runs on the queue.
func (s *AppState) Subscribe(fn func(Snapshot)) stream.Cancel {
	return s.observers.Subscribe(fn)
}

// Close cancels both subscriptions and any in-flight request. Results that
// arrive afterwards are dropped.
func (s *AppState) Close() {
	s.cancel()
	s.queue.Post(func() {
		if s.closed {
			return
		}
		s.closed = true
		if s.pathCancel != nil {
			s.pathCancel()
		}
		if s.locationCancel != nil {
			s.locationCancel()
		}
		log.Println("INFO: appstate: closed")
	})
}

func (s *AppState) handlePath(status connectivity.Status) {
	if s.closed {
		return
	}
	if s.lastStatus != nil && *s.lastStatus == status {
		return
	}
	s.lastStatus = &status

	s.isConnected = status == connectivity.StatusSatisfied
	log.Printf("INFO: appstate: connectivity %s", status)

	if s.isConnected {
		s.publish()
		s.refreshWeather()
		return
	}

	// Invalidate any outstanding fetch and clear in the same update.
	s.weatherGen++
	s.weatherResults = []weather.WeatherDay{}
	s.publish()
}

func (s *AppState) handleLocationEvent(e location.Event) {
	if s.closed {
		return
	}

	switch e.Kind {
	case location.EventAuthorizationChanged:
		s.authorization = e.Status
		switch {
		case e.Status.Authorized():
			s.locate = LocateAuthorized
			s.alert = ""
			s.publish()
			s.location.RequestLocation()
		case e.Status.Refused():
			s.locate = LocateDenied
			s.alert = deniedAlert
			s.publish()
		}

	case location.EventLocationUpdated:
		if !s.isConnected || len(e.Coordinates) == 0 {
			return
		}
		s.searchLocations(e.Coordinates[0])

	case location.EventFailed:
		log.Printf("ERROR: appstate: location failed: %v", e.Err)
	}
}

func (s *AppState) searchLocations(coord location.Coordinate) {
	s.searchGen++
	gen := s.searchGen
	reqID := uuid.NewString()

	var (
		locs []weather.Location
		err  error
	)
	log.Printf("DEBUG: appstate: search %s for %.4f,%.4f", reqID, coord.Latitude, coord.Longitude)
	s.queue.Go(func() {
		locs, err = s.weather.SearchLocations(s.ctx, coord)
	}, func() {
		if s.closed || gen != s.searchGen {
			log.Printf("DEBUG: appstate: search %s superseded; dropping result", reqID)
			return
		}
		if err != nil {
			log.Printf("ERROR: appstate: search %s failed: %v", reqID, err)
			return
		}
		if len(locs) == 0 {
			log.Printf("INFO: appstate: search %s found no locations", reqID)
			return
		}

		loc := locs[0]
		s.currentLocation = &loc
		s.publish()
		s.refreshWeather()
	})
}

func (s *AppState) refreshWeather() {
	if s.currentLocation == nil || !s.isConnected {
		return
	}

	s.weatherGen++
	gen := s.weatherGen
	id := s.currentLocation.ID
	reqID := uuid.NewString()

	s.weatherResults = []weather.WeatherDay{}
	s.publish()

	var (
		resp weather.WeatherResponse
		err  error
	)
	log.Printf("DEBUG: appstate: fetch %s for location %d", reqID, id)
	s.queue.Go(func() {
		resp, err = s.weather.FetchWeather(s.ctx, id)
	}, func() {
		if s.closed || gen != s.weatherGen || !s.isConnected {
			log.Printf("DEBUG: appstate: fetch %s superseded; dropping result", reqID)
			return
		}
		if err != nil {
			log.Printf("ERROR: appstate: fetch %s failed: %v", reqID, err)
			return
		}

		s.weatherResults = append([]weather.WeatherDay{}, resp.Days...)
		s.publish()
	})
}

func (s *AppState) current() Snapshot {
	return Snapshot{
		IsConnected:        s.isConnected,
		CurrentLocation:    s.currentLocation,
		WeatherResults:     s.weatherResults,
		Authorization:      s.authorization,
		Locate:             s.locate,
		AuthorizationAlert: s.alert,
	}.Clone()
}

func (s *AppState) publish() {
	snap := s.current()

	s.mu.Lock()
	s.published = snap
	s.mu.Unlock()

	s.observers.Send(snap.Clone())
}
