package cache

import "sync"

// MemoryStore is an in-process Store, used by tests and by the ":memory:"
// cache directory setting.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns a copy of the entry stored under key.
func (s *MemoryStore) Get(key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e.Body = append([]byte(nil), e.Body...)
	return e, nil
}

// Put stores a copy of entry, replacing any previous value.
func (s *MemoryStore) Put(entry Entry) error {
	entry.Body = append([]byte(nil), entry.Body...)
	s.mu.Lock()
	s.entries[entry.Key] = entry
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
