package location

import (
	"sync"

	"github.com/i474232898/weather-dependencies/internal/stream"
)

// Mock is a Provider assembled from closures. Nil closures are no-ops and
// a nil AuthorizationStatusFunc reports NotDetermined.
type Mock struct {
	AuthorizationStatusFunc  func() AuthorizationStatus
	RequestAuthorizationFunc func()
	RequestLocationFunc      func()
	EventsFunc               func(fn func(Event)) stream.Cancel
}

func (m Mock) AuthorizationStatus() AuthorizationStatus {
	if m.AuthorizationStatusFunc == nil {
		return NotDetermined
	}
	return m.AuthorizationStatusFunc()
}

func (m Mock) RequestAuthorization() {
	if m.RequestAuthorizationFunc != nil {
		m.RequestAuthorizationFunc()
	}
}

func (m Mock) RequestLocation() {
	if m.RequestLocationFunc != nil {
		m.RequestLocationFunc()
	}
}

func (m Mock) Events(fn func(Event)) stream.Cancel {
	if m.EventsFunc == nil {
		return stream.Noop
	}
	return m.EventsFunc(fn)
}

// MockAuthorizedWhenInUse is already authorized; each location request reports
// the zero coordinate.
func MockAuthorizedWhenInUse() Mock {
	subject := stream.NewSubject[Event]()
	return Mock{
		AuthorizationStatusFunc: func() AuthorizationStatus { return AuthorizedWhenInUse },
		RequestLocationFunc:     func() { subject.Send(LocationUpdated(Coordinate{})) },
		EventsFunc:              subject.Subscribe,
	}
}

// MockNotDetermined grants when-in-use access on request.
func MockNotDetermined() Mock {
	return undetermined(AuthorizedWhenInUse)
}

// MockNotDeterminedDenied denies access on request.
func MockNotDeterminedDenied() Mock {
	return undetermined(Denied)
}

func undetermined(outcome AuthorizationStatus) Mock {
	var mu sync.Mutex
	status := NotDetermined
	subject := stream.NewSubject[Event]()

	return Mock{
		AuthorizationStatusFunc: func() AuthorizationStatus {
			mu.Lock()
			defer mu.Unlock()
			return status
		},
		RequestAuthorizationFunc: func() {
			mu.Lock()
			status = outcome
			mu.Unlock()
			subject.Send(AuthorizationChanged(outcome))
		},
		RequestLocationFunc: func() { subject.Send(LocationUpdated(Coordinate{})) },
		EventsFunc:          subject.Subscribe,
	}
}
