// Package session keeps expiring admin sessions in the shared record store.
// Every read fails closed: a missing, malformed, expired or unreadable
// record is an invalid session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/tourdash/internal/clock"
	"github.com/kirinyoku/tourdash/internal/domain"
	"github.com/kirinyoku/tourdash/internal/repository"
	redisrepo "github.com/kirinyoku/tourdash/internal/repository/redis"
)

const DefaultTTL = 10 * time.Minute

var ErrSessionInvalid = errors.New("session invalid")

type Store struct {
	kv    repository.KV
	clock clock.Clock
	ttl   time.Duration

	mu      sync.Mutex
	tracked map[string]struct{}
}

func NewStore(kv repository.KV, c clock.Clock, ttl time.Duration) *Store {
	if c == nil {
		c = clock.Real{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		kv:      kv,
		clock:   c,
		ttl:     ttl,
		tracked: make(map[string]struct{}),
	}
}

// Get returns the session stored under id and whether it is valid now.
// Unparseable and expired records are cleared as a side effect. A store
// error counts as no session.
func (s *Store) Get(ctx context.Context, id string) (domain.AdminSession, bool) {
	sess, ok, err := s.lookup(ctx, id)
	if err != nil {
		return domain.AdminSession{}, false
	}
	return sess, ok
}

// lookup is Get with store errors reported instead of folded into
// "invalid", so callers that act on expiry can tell the two apart.
func (s *Store) lookup(ctx context.Context, id string) (domain.AdminSession, bool, error) {
	if id == "" {
		return domain.AdminSession{}, false, nil
	}

	key := redisrepo.KeySession(id)

	sess, ok, err := redisrepo.GetJSON[domain.AdminSession](ctx, s.kv, key)
	if err != nil {
		return domain.AdminSession{}, false, err
	}
	if !ok || !sess.ValidAt(s.clock.Now()) {
		_ = s.kv.Del(ctx, key)
		s.untrack(id)
		return domain.AdminSession{}, false, nil
	}

	s.track(id)
	return sess, true, nil
}

// Start opens a new admin session valid for the store TTL.
func (s *Store) Start(ctx context.Context) (string, domain.AdminSession, error) {
	const op = "session.Store.Start"

	id := uuid.NewString()
	sess := domain.AdminSession{
		IsAdmin:   true,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}

	if err := redisrepo.SetJSON(ctx, s.kv, redisrepo.KeySession(id), sess, s.ttl); err != nil {
		return "", domain.AdminSession{}, fmt.Errorf("%s: %w", op, err)
	}

	s.track(id)
	return id, sess, nil
}

func (s *Store) End(ctx context.Context, id string) error {
	const op = "session.Store.End"

	s.untrack(id)
	if id == "" {
		return nil
	}
	if err := s.kv.Del(ctx, redisrepo.KeySession(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Tracked lists the sessions opened or validated through this store.
func (s *Store) Tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		out = append(out, id)
	}
	return out
}

func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) track(id string) {
	s.mu.Lock()
	s.tracked[id] = struct{}{}
	s.mu.Unlock()
}

func (s *Store) untrack(id string) {
	s.mu.Lock()
	delete(s.tracked, id)
	s.mu.Unlock()
}
