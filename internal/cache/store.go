package cache

import (
	"context"
	"sync"
	"time"
)

// Entry is one cached resource.
type Entry struct {
	URL       string
	FetchedAt time.Time
	MaxAge    time.Duration
	Payload   []byte
}

// Fresh reports whether the entry may still be served at now.
// A non-positive MaxAge makes the entry stale immediately.
func (e *Entry) Fresh(now time.Time) bool {
	if e == nil {
		return false
	}
	return now.Sub(e.FetchedAt) < e.MaxAge
}

// Store persists entries by URL.
// Get returns (nil, nil) when no entry exists for url.
type Store interface {
	Get(ctx context.Context, url string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
}

// MemoryStore keeps entries in a map for the lifetime of the process.
// Repeated reads of the same URL return the same *Entry.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Get returns the stored entry for url, or nil.
func (s *MemoryStore) Get(_ context.Context, url string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[url], nil
}

// Put stores entry, replacing any previous entry for the same URL.
func (s *MemoryStore) Put(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.URL] = entry
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)
