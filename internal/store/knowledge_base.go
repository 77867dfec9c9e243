package store

import (
	"errors"
	"sync"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate proposition id")
	ErrNilValue    = errors.New("nil value")
)

// KnowledgeBase is the in-memory, insertion-ordered proposition map for one run.
// Map operations are guarded by a mutex; proposition fields are not, so callers
// mutating records must follow the single-writer rule of the pipeline.
type KnowledgeBase struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*domain.Proposition
	order     []uuid.UUID
	bySubject map[string][]*domain.Proposition
}

func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{
		byID:      make(map[uuid.UUID]*domain.Proposition),
		bySubject: make(map[string][]*domain.Proposition),
	}
}

func (kb *KnowledgeBase) Add(p *domain.Proposition) error {
	if p == nil {
		return ErrNilValue
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if _, exists := kb.byID[p.ID]; exists {
		return ErrDuplicateID
	}
	kb.byID[p.ID] = p
	kb.order = append(kb.order, p.ID)
	if p.SubjectLemma != "" {
		kb.bySubject[p.SubjectLemma] = append(kb.bySubject[p.SubjectLemma], p)
	}
	return nil
}

func (kb *KnowledgeBase) GetByID(id uuid.UUID) (*domain.Proposition, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	p, ok := kb.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// GetLinked returns the propositions linked to id by kind. Supporters come before
// contradictors for LinkAll; ids that are not in the knowledge base are skipped and
// each proposition appears once.
func (kb *KnowledgeBase) GetLinked(id uuid.UUID, kind domain.LinkKind) ([]*domain.Proposition, error) {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	p, ok := kb.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	var ids []uuid.UUID
	if kind == domain.LinkSupports || kind == domain.LinkAll {
		ids = append(ids, p.Epistemic.Supports...)
	}
	if kind == domain.LinkContradicts || kind == domain.LinkAll {
		ids = append(ids, p.Epistemic.Contradicts...)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	linked := make([]*domain.Proposition, 0, len(ids))
	for _, lid := range ids {
		if _, dup := seen[lid]; dup {
			continue
		}
		seen[lid] = struct{}{}
		if lp, ok := kb.byID[lid]; ok {
			linked = append(linked, lp)
		}
	}
	return linked, nil
}

// BySubject returns a copy of the subject partition in insertion order.
func (kb *KnowledgeBase) BySubject(subject string) []*domain.Proposition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	props := kb.bySubject[subject]
	out := make([]*domain.Proposition, len(props))
	copy(out, props)
	return out
}

// All returns every proposition in insertion order.
func (kb *KnowledgeBase) All() []*domain.Proposition {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	out := make([]*domain.Proposition, 0, len(kb.order))
	for _, id := range kb.order {
		out = append(out, kb.byID[id])
	}
	return out
}

func (kb *KnowledgeBase) Len() int {
	kb.mu.RLock()
	defer kb.mu.RUnlock()
	return len(kb.order)
}

var _ domain.KnowledgeBase = (*KnowledgeBase)(nil)
