package slot

import (
	"context"
	"sync"
)

// MemorySlot keeps values for the lifetime of the process only.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemory() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (s *MemorySlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *MemorySlot) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemorySlot) Close() error {
	return nil
}
