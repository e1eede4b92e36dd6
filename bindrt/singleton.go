package bindrt

import "sync"

// Singleton is a lazily initialised, process-wide handle. load runs at most
// once regardless of how many goroutines call Get concurrently.
type Singleton[T any] struct {
	once sync.Once
	v    T
}

// Get returns the singleton, creating it on first use.
func (s *Singleton[T]) Get(load func() T) T {
	s.once.Do(func() { s.v = load() })
	return s.v
}
