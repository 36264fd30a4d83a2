package stream

import (
	"sync"
)

// Stream is a FIFO filled by a producer goroutine and drained by the
// consumer without blocking. A limited stream drops its oldest elements
// when full and counts them in Dropped.
type Stream[T any] struct {
	name     string
	limit    int
	elements []T
	dropped  int
	mu       sync.Mutex
}

// NewStream returns a stream that keeps at most limit pending elements;
// limit <= 0 means no limit. When full, the oldest element is dropped.
func NewStream[T any](name string, limit int) *Stream[T] {
	return &Stream[T]{name: name, limit: limit}
}

func (s *Stream[T]) Name() string {
	return s.name
}

func (s *Stream[T]) Push(elements ...T) {
	s.mu.Lock()
	s.elements = append(s.elements, elements...)
	if s.limit > 0 && len(s.elements) > s.limit {
		over := len(s.elements) - s.limit
		s.dropped += over
		s.elements = append(s.elements[:0], s.elements[over:]...)
	}
	s.mu.Unlock()
}

// PullAll returns everything pushed since the previous call, or nil.
func (s *Stream[T]) PullAll() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.elements) == 0 {
		return nil
	}
	elements := s.elements
	s.elements = nil
	return elements
}

func (s *Stream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.elements)
}

// Dropped reports how many elements were discarded because of the limit.
func (s *Stream[T]) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
