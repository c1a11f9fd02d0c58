package notify

import "sync"

// Store is an observable value container. Subscribers receive the
// current value immediately on subscribe and then, synchronously and in
// subscription order, on every change.
type Store[T any] struct {
	mu    sync.Mutex
	value T
	eq    func(a, b T) bool
	subs  []*storeSub[T]
	next  int
}

type storeSub[T any] struct {
	id int
	fn func(T)
}

// NewStore builds a store holding initial. When eq is non-nil, a Set or
// Update whose new value compares equal to the old one does not notify
// subscribers. A nil eq means every write notifies.
func NewStore[T any](initial T, eq func(a, b T) bool) *Store[T] {
	return &Store[T]{value: initial, eq: eq}
}

// SameValue reports a == b, except that a NaN compares equal to itself.
func SameValue[T comparable](a, b T) bool {
	if a == b {
		return true
	}
	return a != a && b != b
}

func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *Store[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update replaces the value with fn(current) and notifies subscribers.
// The callback runs under the store lock; it must not touch the store.
func (s *Store[T]) Update(fn func(T) T) {
	s.mu.Lock()
	old := s.value
	s.value = fn(old)
	if s.eq != nil && s.eq(old, s.value) {
		s.mu.Unlock()
		return
	}
	subs := make([]*storeSub[T], len(s.subs))
	copy(subs, s.subs)
	v := s.value
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn, delivers the current value to it immediately,
// and returns an unsubscribe func.
func (s *Store[T]) Subscribe(fn func(T)) func() {
	s.mu.Lock()
	sub := &storeSub[T]{id: s.next, fn: fn}
	s.next++
	s.subs = append(s.subs, sub)
	v := s.value
	s.mu.Unlock()

	fn(v)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, x := range s.subs {
			if x.id == sub.id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
