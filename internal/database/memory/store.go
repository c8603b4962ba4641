package repository

import (
	"context"
	"sync"
)

// store keeps values by key and remembers insertion order for listings.
type store[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
	order []K
}

func newStore[K comparable, V any]() *store[K, V] {
	return &store[K, V]{items: make(map[K]V)}
}

// insert reports false when the key is already taken.
func (s *store[K, V]) insert(key K, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; ok {
		return false
	}
	s.items[key] = value
	s.order = append(s.order, key)
	return true
}

func (s *store[K, V]) get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok
}

func (s *store[K, V]) remove(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns the values accepted by keep, in insertion order. A nil keep accepts all.
func (s *store[K, V]) list(ctx context.Context, keep func(V) bool) ([]V, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]V, 0, len(s.order))
	for _, k := range s.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := s.items[k]
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}
