package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"immobot/internal/adapters/observability"
	"immobot/internal/domain"
)

// DefaultSweepInterval is used by Run when no positive interval is given.
const DefaultSweepInterval = time.Minute

type session struct {
	mu       sync.Mutex // serializes turns; guards engine and restored
	engine   *Engine
	restored bool

	// guarded by Sessions.mu
	lastSeen time.Time
	inUse    int
}

// Sessions keeps one independent Engine per external user id. Sessions idle
// longer than the TTL are evicted by Sweep. When a cache is configured every
// turn is snapshotted there, so an evicted or restarted conversation resumes.
type Sessions struct {
	finder Finder
	cache  domain.Cache // optional
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

func NewSessions(f Finder, cache domain.Cache, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{finder: f, cache: cache, ttl: ttl, now: time.Now, items: map[string]*session{}}
}

func sessionKey(userID string) string { return "session:" + userID }

// Handle runs one turn of userID's conversation.
func (s *Sessions) Handle(ctx context.Context, userID, text string) string {
	sess := s.acquire(userID)
	defer s.release(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.restored {
		s.restore(ctx, userID, sess)
		sess.restored = true
	}

	reply := sess.engine.ProcessMessage(ctx, text)

	if s.cache != nil {
		if err := s.cache.Set(ctx, sessionKey(userID), sess.engine.Snapshot(), int(s.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("session snapshot failed")
		}
	}
	return reply
}

// acquire returns userID's session, creating it if needed, and pins it so
// Sweep leaves it alone until release.
func (s *Sessions) acquire(userID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[userID]
	if !ok {
		sess = &session{engine: NewEngine(s.finder), restored: s.cache == nil}
		s.items[userID] = sess
		observability.SetActiveSessions(len(s.items))
	}
	sess.lastSeen = s.now()
	sess.inUse++
	return sess
}

func (s *Sessions) release(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.inUse--
	sess.lastSeen = s.now()
}

// restore loads the cached snapshot into a new session. It runs under the
// session's own lock so a slow cache only delays that user.
func (s *Sessions) restore(ctx context.Context, userID string, sess *session) {
	var snap Snapshot
	ok, err := s.cache.Get(ctx, sessionKey(userID), &snap)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("user", userID).Msg("session restore failed")
	case ok:
		sess.engine.Restore(snap)
		log.Debug().Str("user", userID).Str("state", string(snap.State)).Msg("session restored")
	}
}

// Reset forgets userID's conversation, including any snapshot.
func (s *Sessions) Reset(ctx context.Context, userID string) {
	s.mu.Lock()
	delete(s.items, userID)
	observability.SetActiveSessions(len(s.items))
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Del(ctx, sessionKey(userID)); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("session snapshot delete failed")
		}
	}
}

// Sweep evicts sessions idle for longer than the TTL and returns how many went.
// A session with a turn in flight is never idle.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.items {
		if sess.inUse > 0 || !sess.lastSeen.Before(cutoff) {
			continue
		}
		delete(s.items, id)
		n++
	}
	observability.SetActiveSessions(len(s.items))
	return n
}

// Run sweeps every interval until ctx is done. A non-positive interval means
// DefaultSweepInterval.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Warn().Dur("interval", interval).Dur("default", DefaultSweepInterval).Msg("invalid sweep interval, using default")
		interval = DefaultSweepInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				log.Info().Int("evicted", n).Msg("idle sessions evicted")
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
