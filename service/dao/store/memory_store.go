package store

import (
	"context"
	"sync"

	"github.com/viant/bpmnflow/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service keyed by
// keySelector. List preserves insertion order; a replaced record keeps its
// original position.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keys        []K
	keySelector func(*T) K
	filter      func(*T, []*dao.Parameter) bool
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
}

// WithFilter sets the List parameter filter.
func (s *MemoryStore[K, T]) WithFilter(filter func(*T, []*dao.Parameter) bool) *MemoryStore[K, T] {
	s.filter = filter
	return s
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.records[key] = v
	return nil
}

// Load returns a record by key, or nil when missing.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[key], nil
}

// List returns stored records accepted by the filter.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.keys))
	for _, key := range s.keys {
		v := s.records[key]
		if s.filter != nil && len(parameters) > 0 && !s.filter(v, parameters) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Len returns number of records.
func (s *MemoryStore[K, T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
