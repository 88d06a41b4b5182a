// Package otp holds the transient one-time-code table used during
// registration. Entries live outside the durable store because the user
// does not exist yet when the code is issued.
package otp

import (
	"context"
	"sync"
	"time"
)

// Store is a per-key last-write-wins table with TTL semantics. An expired
// entry is indistinguishable from an absent one.
type Store interface {
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, bool, error)
	Delete(ctx context.Context, email string) error
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is the redis-less implementation for tests and local dev.
// Expired entries are invalidated lazily on read; volume is bounded by
// registration rate, so there is no sweeper.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = memoryEntry{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok {
		return "", false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, email)
		return "", false, nil
	}
	return e.code, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

var _ Store = (*MemoryStore)(nil)
