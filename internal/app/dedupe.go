package app

import (
	"context"
	"sync"
	"time"
)

// memClaimer is the single-process Claimer used when no shared one is wired.
type memClaimer struct {
	now func() time.Time

	mu   sync.Mutex
	seen map[string]time.Time // key -> expiry
}

func newMemClaimer() *memClaimer {
	return &memClaimer{now: time.Now, seen: map[string]time.Time{}}
}

func (m *memClaimer) Claim(ctx context.Context, key string, ttlSec int) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	for k, exp := range m.seen {
		if !now.Before(exp) {
			delete(m.seen, k)
		}
	}
	if _, ok := m.seen[key]; ok {
		return false, nil
	}
	m.seen[key] = now.Add(time.Duration(ttlSec) * time.Second)
	return true, nil
}
