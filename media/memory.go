package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	nextID  int
	byID    map[string]memoryFile
	idByKey map[string]string
	baseURL string
}

type memoryFile struct {
	path string
	data []byte
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		byID:    make(map[string]memoryFile),
		idByKey: make(map[string]string),
		baseURL: baseURL,
	}
}

func (s *MemoryStore) Upload(ctx context.Context, path string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("media: upload %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("mem-%d", s.nextID)
	s.nextID++
	s.byID[id] = memoryFile{path: path, data: data}
	s.idByKey[path] = id

	return s.baseURL + "/media/" + id, nil
}

func (s *MemoryStore) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.byID[id]
	if !ok {
		return nil, "", ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(file.data)), file.path, nil
}

func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.idByKey[path]
	if !ok {
		return nil
	}
	delete(s.byID, id)
	delete(s.idByKey, path)
	return nil
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
