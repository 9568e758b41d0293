package utils

// Set remembers insertion order and drops repeated values. It is not safe
// for concurrent use.
type Set[T comparable] struct {
	seen  map[T]struct{}
	order []T
}

// NewSet creates an empty Set.
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{seen: make(map[T]struct{})}
}

// Add returns true if v was newly added, false if already present.
func (s *Set[T]) Add(v T) bool {
	if _, exists := s.seen[v]; exists {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Contains returns true if v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, exists := s.seen[v]
	return exists
}

// Size returns the number of unique values tracked.
func (s *Set[T]) Size() int {
	return len(s.order)
}

// Values returns a copy of the values in insertion order.
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}
