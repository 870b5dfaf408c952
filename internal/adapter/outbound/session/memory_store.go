// Package session keeps the proxy's active session in memory.
package session

import (
	"context"
	"sync"
	"time"

	"upstreamproxy/internal/domain/failure"
	"upstreamproxy/internal/port/outbound"
)

// MemoryStore is an in-process SessionStore.
type MemoryStore struct {
	mu      sync.RWMutex
	current *outbound.Session
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) CurrentSession(_ context.Context) (outbound.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return outbound.Session{}, false
	}
	return *s.current, true
}

func (s *MemoryStore) CreateSession(_ context.Context, owner string) (outbound.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		if s.current.Owner != owner {
			return outbound.Session{}, &failure.SessionInUseError{URN: s.current.Owner}
		}
		return *s.current, nil
	}

	s.current = &outbound.Session{Owner: owner, CreatedAt: s.now().UTC()}
	return *s.current, nil
}

var _ outbound.SessionStore = (*MemoryStore)(nil)
