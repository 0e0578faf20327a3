package stream

import "sync"

// Cancel releases a subscription. Calling it more than once is a no-op.
type Cancel func()

// Noop is a Cancel that releases nothing.
func Noop() {}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subject fans one upstream source out to any number of subscribers.
// Values are delivered synchronously, in subscription order, on the
// goroutine that calls Send.
type Subject[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]

	onStart func()
	onStop  func()
}

// NewSubject creates an empty Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// OnActive registers hooks run when the first subscriber arrives and when the
// last one leaves. Live sources use them to open and release the underlying
// handle.
func (s *Subject[T]) OnActive(start, stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStart = start
	s.onStop = stop
}

// Subscribe registers fn and returns the Cancel that removes it.
func (s *Subject[T]) Subscribe(fn func(T)) Cancel {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	first := len(s.subs) == 1
	start := s.onStart
	s.mu.Unlock()

	if first && start != nil {
		start()
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Subject[T]) remove(id int) {
	s.mu.Lock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			break
		}
	}
	last := len(s.subs) == 0
	stop := s.onStop
	s.mu.Unlock()

	if last && stop != nil {
		stop()
	}
}

// Send delivers v to every current subscriber. The lock is not held while
// subscribers run, so a subscriber may Send or Subscribe again.
func (s *Subject[T]) Send(v T) {
	s.mu.Lock()
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Len reports the number of active subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
