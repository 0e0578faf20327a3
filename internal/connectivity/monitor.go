// Package connectivity reports coarse network reachability.
package connectivity

import (
	"github.com/i474232898/weather-dependencies/internal/stream"
)

// Status is a coarse reachability signal, not bandwidth or latency.
type Status int

const (
	StatusUnsatisfied Status = iota
	StatusSatisfied
)

func (s Status) String() string {
	if s == StatusSatisfied {
		return "satisfied"
	}
	return "unsatisfied"
}

// Monitor exposes a lazy, infinite sequence of status changes. The first
// subscription starts monitoring; an initial status is emitted followed by
// changes. Consumers are expected to drop consecutive duplicates.
type Monitor interface {
	Observe(fn func(Status)) stream.Cancel
}

// MonitorFunc adapts a function to a Monitor.
type MonitorFunc func(fn func(Status)) stream.Cancel

func (f MonitorFunc) Observe(fn func(Status)) stream.Cancel { return f(fn) }
