package media

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type object struct {
	mimeType string
	data     []byte
}

// MemoryStore keeps photos in process memory. It is the default
// backend; photos live exactly as long as the incident records do.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]object)}
}

func (s *MemoryStore) Put(_ context.Context, id, mimeType string, content []byte) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = object{
		mimeType: mimeType,
		data:     append([]byte(nil), content...),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) ([]byte, string, error) {
	if s == nil {
		return nil, "", fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.data[strings.TrimSpace(id)]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), obj.data...), obj.mimeType, nil
}

// URL points at the gateway's photo handler, which serves from this
// store.
func (s *MemoryStore) URL(_ context.Context, id string) (string, error) {
	return "/api/photos/" + strings.TrimSpace(id), nil
}
