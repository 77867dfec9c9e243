package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Analysis is the result of one pipeline run. Readers hold RLock while they walk
// the knowledge base; anything that mutates it holds Lock.
type Analysis struct {
	mu sync.RWMutex

	ID          uuid.UUID          `json:"id"`
	KB          KnowledgeBase      `json:"-"`
	Reliability map[string]float64 `json:"reliability"`
	Summary     AnalysisSummary    `json:"summary"`
	StartedAt   time.Time          `json:"started_at"`
	Duration    time.Duration      `json:"duration"`
}

func (a *Analysis) Lock() {
	a.mu.Lock()
}

func (a *Analysis) Unlock() {
	a.mu.Unlock()
}

func (a *Analysis) RLock() {
	a.mu.RLock()
}

func (a *Analysis) RUnlock() {
	a.mu.RUnlock()
}

type AnalysisSummary struct {
	Propositions       int              `json:"propositions"`
	Unlinkable         int              `json:"unlinkable"`
	Assessed           int              `json:"assessed"`
	SupportEdges       int              `json:"support_edges"`
	ContradictionEdges int              `json:"contradiction_edges"`
	Flags              map[BiasFlag]int `json:"flags"`
	PropagationPasses  int              `json:"propagation_passes"`
	Converged          bool             `json:"converged"`
}

// Summarize counts edges and flags over the knowledge base. Each symmetric edge is
// counted once.
func Summarize(kb KnowledgeBase) AnalysisSummary {
	s := AnalysisSummary{Flags: make(map[BiasFlag]int)}
	if kb == nil {
		return s
	}
	for _, p := range kb.All() {
		s.Propositions++
		if !p.Linkable() {
			s.Unlinkable++
		}
		if p.Epistemic.PlausibilityScore != nil {
			s.Assessed++
		}
		s.SupportEdges += len(p.Epistemic.Supports)
		s.ContradictionEdges += len(p.Epistemic.Contradicts)
		for _, f := range p.Epistemic.BiasFlags {
			s.Flags[f]++
		}
	}
	s.SupportEdges /= 2
	s.ContradictionEdges /= 2
	return s
}
