package store

import (
	"time"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// AnalysisStore keeps finished analyses in memory for a bounded time so that
// read-only consumers can look them up after the run. Nothing is persisted.
type AnalysisStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewAnalysisStore(ttl, cleanupInterval time.Duration) *AnalysisStore {
	return &AnalysisStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (s *AnalysisStore) Put(a *domain.Analysis) error {
	if a == nil {
		return ErrNilValue
	}
	s.cache.Set(a.ID.String(), a, s.ttl)
	return nil
}

func (s *AnalysisStore) Get(id uuid.UUID) (*domain.Analysis, error) {
	v, found := s.cache.Get(id.String())
	if !found {
		return nil, ErrNotFound
	}
	a, ok := v.(*domain.Analysis)
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *AnalysisStore) Delete(id uuid.UUID) {
	s.cache.Delete(id.String())
}

func (s *AnalysisStore) Count() int {
	return s.cache.ItemCount()
}
