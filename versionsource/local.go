package versionsource

import (
	"context"
	"sync"
)

// Local keeps the commit version in-process (default).
type Local struct {
	mu      sync.Mutex
	current uint64
}

var _ Source = (*Local)(nil)

// NewLocal starts counting after start.
func NewLocal(start uint64) *Local {
	return &Local{current: start}
}

func (s *Local) Next(_ context.Context) (uint64, error) {
	s.mu.Lock()
	s.current++
	v := s.current
	s.mu.Unlock()
	return v, nil
}

func (s *Local) Current(_ context.Context) (uint64, error) {
	s.mu.Lock()
	v := s.current
	s.mu.Unlock()
	return v, nil
}

func (s *Local) Close(_ context.Context) error { return nil }
