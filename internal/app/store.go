package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"immobot/internal/domain"
)

// PropertyStore is the in-memory listing collection. Reads share a lock;
// Add and Remove rewrite the backing store while holding the write lock.
type PropertyStore struct {
	backend domain.RecordStore

	mu     sync.RWMutex
	props  []domain.Property
	loaded bool
	now    func() time.Time
}

func NewPropertyStore(backend domain.RecordStore) *PropertyStore {
	return &PropertyStore{backend: backend, now: time.Now}
}

// Load reads the backing store. A store that does not exist yet is seeded with
// the sample listings and persisted.
func (s *PropertyStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ps, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNoRecords):
		ps = SeedProperties()
		if err := s.backend.Save(ctx, ps); err != nil {
			return fmt.Errorf("%w: persist seed: %v", domain.ErrStoreUnavailable, err)
		}
		log.Info().Int("count", len(ps)).Msg("property store seeded")
	case err != nil:
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	s.props = ps
	s.loaded = true
	log.Info().Int("count", len(ps)).Msg("property store loaded")
	return nil
}

// Find returns, in store order, every listing matching all present criteria.
// A listing whose price or rooms cannot be read is skipped.
func (s *PropertyStore) Find(ctx context.Context, c domain.Criteria) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, domain.ErrStoreUnavailable
	}
	var out []domain.Property
	for _, p := range s.props {
		ok, err := c.Matches(p)
		if err != nil {
			log.Warn().Err(err).Str("property", p.ID).Msg("skipping malformed property")
			continue
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// All returns a copy of the collection.
func (s *PropertyStore) All(ctx context.Context) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, domain.ErrStoreUnavailable
	}
	out := make([]domain.Property, len(s.props))
	copy(out, s.props)
	return out, nil
}

// Add appends p and persists the whole collection. Missing id and creation
// time are filled in.
func (s *PropertyStore) Add(ctx context.Context, p domain.Property) (domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return domain.Property{}, domain.ErrStoreUnavailable
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}
	for _, cur := range s.props {
		if cur.ID == p.ID {
			return domain.Property{}, fmt.Errorf("%w: property %s already exists", domain.ErrConflict, p.ID)
		}
	}

	next := make([]domain.Property, len(s.props), len(s.props)+1)
	copy(next, s.props)
	next = append(next, p)
	if err := s.backend.Save(ctx, next); err != nil {
		return domain.Property{}, fmt.Errorf("save properties: %w", err)
	}
	s.props = next
	return p, nil
}

// Remove drops the listing with id and persists the collection. It reports
// whether anything was removed; nothing is written when the id is unknown.
func (s *PropertyStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return false, domain.ErrStoreUnavailable
	}
	next := make([]domain.Property, 0, len(s.props))
	for _, p := range s.props {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(s.props) {
		return false, nil
	}
	if err := s.backend.Save(ctx, next); err != nil {
		return false, fmt.Errorf("save properties: %w", err)
	}
	s.props = next
	return true, nil
}
