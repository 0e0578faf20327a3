package connectivity

import (
	"context"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/i474232898/weather-dependencies/internal/dispatch"
	"github.com/i474232898/weather-dependencies/internal/scheduler"
	"github.com/i474232898/weather-dependencies/internal/stream"
)

// ProbeConfig controls the live reachability probe.
type ProbeConfig struct {
	// Addr is a host:port dialed over TCP, e.g. "1.1.1.1:53".
	Addr     string
	Interval time.Duration
	Timeout  time.Duration
}

// ProbeMonitor is the live Monitor. It dials Addr every Interval while at
// least one observer is subscribed and reports the result on the queue.
type ProbeMonitor struct {
	cfg     ProbeConfig
	queue   dispatch.Queue
	subject *stream.Subject[Status]
	dialer  *net.Dialer

	mu    sync.Mutex
	sched *scheduler.Scheduler
	// last is the most recent status of the running probe, replayed to
	// subscribers that join after the first.
	last    Status
	hasLast bool
}

func NewProbeMonitor(cfg ProbeConfig, queue dispatch.Queue) *ProbeMonitor {
	m := &ProbeMonitor{
		cfg:     cfg,
		queue:   queue,
		subject: stream.NewSubject[Status](),
		dialer:  &net.Dialer{},
	}
	m.subject.OnActive(m.start, m.stop)
	return m
}

// Observe subscribes fn. A subscriber joining a running probe is sent the
// last known status first.
func (m *ProbeMonitor) Observe(fn func(Status)) stream.Cancel {
	m.mu.Lock()
	last, ok := m.last, m.hasLast
	m.mu.Unlock()

	var cancelled atomic.Bool
	cancel := m.subject.Subscribe(func(s Status) {
		if !cancelled.Load() {
			fn(s)
		}
	})
	if ok {
		m.queue.Post(func() {
			if !cancelled.Load() {
				fn(last)
			}
		})
	}

	return func() {
		cancelled.Store(true)
		cancel()
	}
}

// Probe dials the configured address once.
func (m *ProbeMonitor) Probe(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	conn, err := m.dialer.DialContext(ctx, "tcp", m.cfg.Addr)
	if err != nil {
		log.Printf("DEBUG: connectivity: probe %s failed: %v", m.cfg.Addr, err)
		return StatusUnsatisfied
	}
	_ = conn.Close()
	return StatusSatisfied
}

func (m *ProbeMonitor) start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := scheduler.New("connectivity-probe", m.cfg.Interval)
	err := s.Start(func() {
		status := m.Probe(context.Background())
		m.queue.Post(func() {
			m.mu.Lock()
			current := m.sched == s
			if current {
				m.last, m.hasLast = status, true
			}
			m.mu.Unlock()

			if current {
				m.subject.Send(status)
			}
		})
	})
	if err != nil {
		log.Printf("ERROR: connectivity: failed to start probe: %v", err)
		return
	}
	m.sched = s
}

func (m *ProbeMonitor) stop() {
	m.mu.Lock()
	s := m.sched
	m.sched = nil
	m.hasLast = false
	m.mu.Unlock()

	// Stop waits for a running probe, which may need mu to report.
	if s != nil {
		s.Stop()
	}
}
