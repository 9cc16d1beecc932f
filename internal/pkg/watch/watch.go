// Package watch provides a minimal publish-subscribe primitive used to
// push state changes from the realtime services to their consumers.
package watch

import "sync"

// Subscriber receives the new value after every change.
type Subscriber[T any] func(value T)

// Source fans a value out to registered subscribers. The zero value is not
// usable, create one with New.
type Source[T any] struct {
	mu    sync.Mutex
	next  int
	subs  map[int]Subscriber[T]
	value T
}

func New[T any](initial T) *Source[T] {
	return &Source[T]{
		subs:  make(map[int]Subscriber[T]),
		value: initial,
	}
}

// Get returns the current value.
func (s *Source[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores the value and notifies every subscriber synchronously, in
// unspecified order.
func (s *Source[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	subs := make([]Subscriber[T], 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(value)
	}
}

// Update applies fn to the current value and publishes the result.
func (s *Source[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	value := s.value
	subs := make([]Subscriber[T], 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(value)
	}
}

// Subscribe registers sub and returns a cancel function. Consumers must
// call cancel on teardown so handlers do not leak.
func (s *Source[T]) Subscribe(sub Subscriber[T]) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = sub
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
