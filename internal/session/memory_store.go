package session

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process; they are lost on restart and not shared across replicas.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	m       map[string]entry
	creates int
}

const sweepEvery = 64

type entry struct {
	id  user.Identity
	exp time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &MemoryStore{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry),
	}
}

func (s *MemoryStore) Create(ctx context.Context, id user.Identity) (string, error) {
	token := uuid.NewString()

	now := s.now()

	s.mu.Lock()
	s.m[token] = entry{id: id, exp: now.Add(s.ttl)}
	s.creates++
	if s.creates%sweepEvery == 0 {
		// sessions that were never read again would otherwise live forever
		for k, e := range s.m {
			if now.After(e.exp) {
				delete(s.m, k)
			}
		}
	}
	s.mu.Unlock()

	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (user.Identity, error) {
	now := s.now()

	s.mu.RLock()
	e, ok := s.m[token]
	s.mu.RUnlock()

	if !ok {
		return user.Identity{}, ErrNoSession
	}

	if now.After(e.exp) {
		s.mu.Lock()
		delete(s.m, token)
		s.mu.Unlock()
		return user.Identity{}, ErrNoSession
	}

	return e.id, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
