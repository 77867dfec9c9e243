package domain

import (
	"context"

	"github.com/google/uuid"
)

// PropositionIndex is the view the linker needs: the propositions already present
// for a subject, in insertion order.
type PropositionIndex interface {
	BySubject(subject string) []*Proposition
}

// KnowledgeBase maps proposition ids to propositions for a single analysis run.
// Iteration through All is insertion ordered.
type KnowledgeBase interface {
	PropositionIndex
	Add(p *Proposition) error
	GetByID(id uuid.UUID) (*Proposition, error)
	GetLinked(id uuid.UUID, kind LinkKind) ([]*Proposition, error)
	All() []*Proposition
	Len() int
}

// PlausibilityValidator assigns a standalone common-sense score to a proposition
// before it enters the knowledge base. A nil validator disables plausibility scaling.
type PlausibilityValidator interface {
	Assess(ctx context.Context, p *Proposition) (*Assessment, error)
}

// PlausibilityVerdict is what an LLM returns for a single statement.
type PlausibilityVerdict struct {
	Score float64 `json:"score"`
	Note  string  `json:"note,omitempty"`
}

type LLMClient interface {
	AssessPlausibility(ctx context.Context, statement string) (*PlausibilityVerdict, error)
}
