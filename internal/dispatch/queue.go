// Package dispatch provides the designated callback context that application
// state handlers run on. Dependencies may do their I/O anywhere, but they hand
// results back through a Queue so handlers never run concurrently.
package dispatch

import (
	"log"
	"sync"
)

// Queue runs callbacks on one logical thread of control.
type Queue interface {
	// Post schedules fn on the queue.
	Post(fn func())
	// Go runs work off the queue, then posts then onto it.
	Go(work func(), then func())
}

// Immediate runs everything inline on the calling goroutine. With synchronous
// dependencies, every effect of a trigger is visible once the trigger returns.
type Immediate struct{}

func (Immediate) Post(fn func()) { fn() }

func (Immediate) Go(work func(), then func()) {
	work()
	then()
}

// Serial drains posted callbacks on a single background goroutine.
type Serial struct {
	mu      sync.Mutex
	pending []func()
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewSerial starts the queue's goroutine.
func NewSerial() *Serial {
	q := &Serial{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

// Post enqueues fn. Posting after Close drops fn.
func (q *Serial) Post(fn func()) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Go runs work on its own goroutine and posts then when it finishes.
func (q *Serial) Go(work func(), then func()) {
	go func() {
		work()
		q.Post(then)
	}()
}

// Close stops accepting callbacks, runs what is already queued and waits for
// the queue goroutine to exit.
func (q *Serial) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.mu.Unlock()

	close(q.stop)
	<-q.done
}

func (q *Serial) loop() {
	defer close(q.done)
	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.stop:
			q.drain()
			return
		}
	}
}

func (q *Serial) drain() {
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			run(fn)
		}
	}
}

func run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: dispatch: recovered panic in queued callback: %v", r)
		}
	}()
	fn()
}
