package auth

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	sess      Session
	expiresAt time.Time
}

// MemoryStore is an in-process Store used in tests.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memorySession
}

// NewMemoryStore returns a new MemoryStore.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryStore{ttl: ttl, data: make(map[string]memorySession)}
}

func (s *MemoryStore) Create(_ context.Context, sess Session) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.data[id] = memorySession{sess: sess, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.data[id]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.data, id)
		return Session{}, false
	}
	return entry.sess, true
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}
