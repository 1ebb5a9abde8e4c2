// Package memory is a tiny TTL cache for response bodies.
package memory

import (
	"sync"
	"time"
)

type entry struct {
	content   []byte
	expiresAt time.Time
}

// Storage ...
type Storage struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewStorage ...
func NewStorage() *Storage {
	return &Storage{
		entries: map[string]entry{},
	}
}

// Get returns the cached content or nil when missing or expired.
func (s *Storage) Get(key string) []byte {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil
	}

	return e.content
}

// Set stores content under key for the given duration.
func (s *Storage) Set(key string, content []byte, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		content:   content,
		expiresAt: time.Now().Add(duration),
	}
}
