package reactive

import "sync"

// Signal is the read side of a reactive value
type Signal[T comparable] interface {
	Get() T
	Subscribe(fn func(T)) (unsubscribe func())
}

// State represents a reactive state value. Subscribers are notified in
// subscription order, outside the lock, and only when the value changes.
type State[T comparable] struct {
	mu     sync.RWMutex
	value  T
	subs   []subscription[T]
	nextID uint64
}

type subscription[T comparable] struct {
	id uint64
	fn func(T)
}

// NewState creates a new reactive state
func NewState[T comparable](initial T) *State[T] {
	return &State[T]{value: initial}
}

// Get returns the current value
func (s *State[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and reports whether it changed
func (s *State[T]) Set(value T) bool {
	return s.Update(func(T) T { return value })
}

// Update atomically reads, modifies, and writes the value
func (s *State[T]) Update(fn func(T) T) bool {
	s.mu.Lock()
	old := s.value
	s.value = fn(old)
	changed := s.value != old
	current := s.value
	subs := append([]subscription[T](nil), s.subs...)
	s.mu.Unlock()

	if !changed {
		return false
	}
	for _, sub := range subs {
		sub.fn(current)
	}
	return true
}

// Subscribe registers fn for future changes and returns a function that
// removes it again
func (s *State[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription[T]{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of active subscriptions
func (s *State[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
