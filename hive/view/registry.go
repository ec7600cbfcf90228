package view

import (
	"path/filepath"
	"sync"
)

// Registry deduplicates file mappings by cleaned path, making repeated
// maps of the same hive file idempotent.
type Registry struct {
	mu   sync.Mutex
	maps map[string]*Mapping
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{maps: make(map[string]*Mapping)}
}

// Map returns the existing mapping for path or opens a new one.
func (r *Registry) Map(path string) (*Mapping, error) {
	key := filepath.Clean(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.maps[key]; ok {
		return m, nil
	}
	m, err := OpenFile(key)
	if err != nil {
		return nil, err
	}
	r.maps[key] = m
	return m, nil
}

// Unmap closes and forgets the mapping for path. Closing fails while
// views are live and the mapping stays registered.
func (r *Registry) Unmap(path string) error {
	key := filepath.Clean(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.maps[key]
	if !ok {
		return ErrNotMapped
	}
	if err := m.Close(); err != nil {
		return err
	}
	delete(r.maps, key)
	return nil
}

// Len reports the number of live mappings.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.maps)
}
