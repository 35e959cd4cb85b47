package tokenstore

import (
	"context"
	"sync"
	"time"

	"library-api/internal/pkg/clock"

	"github.com/google/uuid"
)

// MemoryStore is used when no Redis address is configured. Sessions do not survive a
// restart and are not shared between instances.
type MemoryStore struct {
	mu       sync.Mutex
	clock    clock.Clock
	sessions map[uuid.UUID]session
}

type session struct {
	jti       string
	expiresAt time.Time
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:    clk,
		sessions: make(map[uuid.UUID]session),
	}
}

func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session{jti: jti, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Consume(_ context.Context, userID uuid.UUID, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok || sess.jti != jti {
		return false, nil
	}
	delete(s.sessions, userID)
	if !s.clock.Now().Before(sess.expiresAt) {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Revoke(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
