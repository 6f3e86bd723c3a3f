// Package memory is an in-process string store with the same surface as the
// redis cache. It backs tests and single-node runs without redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kirinyoku/tourdash/internal/clock"
)

type entry struct {
	val     string
	expires time.Time
}

type Store struct {
	mu    sync.Mutex
	clock clock.Clock
	data  map[string]entry
}

func New(c clock.Clock) *Store {
	if c == nil {
		c = clock.Real{}
	}
	return &Store{clock: c, data: make(map[string]entry)}
}

func (s *Store) GetString(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !s.clock.Now().Before(e.expires) {
		delete(s.data, key)
		return "", false, nil
	}
	return e.val, true, nil
}

// SetString replaces the whole value. A ttl <= 0 keeps the key forever.
func (s *Store) SetString(_ context.Context, key, val string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{val: val}
	if ttl > 0 {
		e.expires = s.clock.Now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}
