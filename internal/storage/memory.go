package storage

import "sync"

// MemoryStore is an in-memory blob store. It backs tests and the degraded
// mode entered when the SQL store is unavailable at startup.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// ReadBlob returns a copy of the blob stored under key, or ErrNotFound
func (m *MemoryStore) ReadBlob(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// WriteBlob replaces the blob stored under key
func (m *MemoryStore) WriteBlob(key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(blob))
	copy(stored, blob)
	m.blobs[key] = stored
	return nil
}
