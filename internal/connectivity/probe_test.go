package connectivity

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dependencies/internal/dispatch"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	return ln
}

func TestProbeReachable(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	m := NewProbeMonitor(ProbeConfig{Addr: ln.Addr().String(), Interval: time.Hour, Timeout: time.Second}, dispatch.Immediate{})
	assert.Equal(t, StatusSatisfied, m.Probe(context.Background()))
}

func TestProbeUnreachable(t *testing.T) {
	ln := listen(t)
	addr := ln.Addr().String()
	ln.Close()

	m := NewProbeMonitor(ProbeConfig{Addr: addr, Interval: time.Hour, Timeout: 200 * time.Millisecond}, dispatch.Immediate{})
	assert.Equal(t, StatusUnsatisfied, m.Probe(context.Background()))
}

func TestProbeMonitorEmitsInitialStatusOnSubscribe(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	q := dispatch.NewSerial()
	defer q.Close()

	m := NewProbeMonitor(ProbeConfig{Addr: ln.Addr().String(), Interval: time.Hour, Timeout: time.Second}, q)

	var mu sync.Mutex
	var got []Status
	cancel := m.Observe(func(s Status) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	defer cancel()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == StatusSatisfied
	}, 2*time.Second, 10*time.Millisecond)
}

func TestProbeMonitorReplaysLastStatusToLateObserver(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	q := dispatch.NewSerial()
	defer q.Close()

	m := NewProbeMonitor(ProbeConfig{Addr: ln.Addr().String(), Interval: time.Hour, Timeout: time.Second}, q)

	var first atomic.Int32
	cancelFirst := m.Observe(func(Status) { first.Add(1) })
	defer cancelFirst()
	require.Eventually(t, func() bool { return first.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// The next tick is an hour away, so only a replay can reach this one.
	var mu sync.Mutex
	var got []Status
	cancelSecond := m.Observe(func(s Status) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	defer cancelSecond()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == StatusSatisfied
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), first.Load())
}

func TestProbeMonitorStopsAfterLastCancel(t *testing.T) {
	ln := listen(t)
	defer ln.Close()

	q := dispatch.NewSerial()
	defer q.Close()

	m := NewProbeMonitor(ProbeConfig{Addr: ln.Addr().String(), Interval: 20 * time.Millisecond, Timeout: time.Second}, q)

	var count atomic.Int32
	cancel := m.Observe(func(Status) { count.Add(1) })
	require.Eventually(t, func() bool { return count.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()

	m.mu.Lock()
	sched, hasLast := m.sched, m.hasLast
	m.mu.Unlock()
	assert.Nil(t, sched)
	assert.False(t, hasLast)

	settled := count.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, settled, count.Load())

	// Subscribing again starts a fresh probe.
	var again atomic.Int32
	cancelAgain := m.Observe(func(Status) { again.Add(1) })
	defer cancelAgain()
	assert.Eventually(t, func() bool { return again.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestMocks(t *testing.T) {
	var got []Status
	Satisfied().Observe(func(s Status) { got = append(got, s) })
	Unsatisfied().Observe(func(s Status) { got = append(got, s) })
	assert.Equal(t, []Status{StatusSatisfied, StatusUnsatisfied}, got)

	sm := NewSubjectMonitor()
	got = nil
	cancel := sm.Observe(func(s Status) { got = append(got, s) })
	assert.Empty(t, got)
	sm.Send(StatusSatisfied)
	cancel()
	sm.Send(StatusUnsatisfied)
	assert.Equal(t, []Status{StatusSatisfied}, got)
	assert.Equal(t, 0, sm.Observers())
}
