package service

import (
	"github.com/Harshitk-cp/credence/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultReliableScore     = 0.75
	DefaultUnreliableScore   = 0.35
	DefaultSourceReliability = 0.6
	DefaultMinReliability    = 0.1
	DefaultMaxReliability    = 1.0
)

// ReliabilityTable maps source ids to trust scores. Lookups of unknown sources fall
// back to a default.
type ReliabilityTable struct {
	scores   map[string]float64
	fallback float64
}

func NewReliabilityTable(scores map[string]float64, fallback float64) ReliabilityTable {
	if scores == nil {
		scores = make(map[string]float64)
	}
	return ReliabilityTable{scores: scores, fallback: fallback}
}

// Lookup returns the score for sourceID or the fallback when it is absent.
func (t ReliabilityTable) Lookup(sourceID string) float64 {
	if s, ok := t.scores[sourceID]; ok {
		return s
	}
	return t.fallback
}

// Scores returns a copy of the computed table.
func (t ReliabilityTable) Scores() map[string]float64 {
	out := make(map[string]float64, len(t.scores))
	for k, v := range t.scores {
		out[k] = v
	}
	return out
}

func (t ReliabilityTable) Len() int { return len(t.scores) }

// ReliabilityCalculator derives a binary trust score per source: any contradicted
// proposition marks the whole source unreliable.
type ReliabilityCalculator struct {
	logger *zap.Logger

	ReliableScore   float64
	UnreliableScore float64
	DefaultScore    float64
}

func NewReliabilityCalculator(logger *zap.Logger) *ReliabilityCalculator {
	return &ReliabilityCalculator{
		logger:          logger,
		ReliableScore:   DefaultReliableScore,
		UnreliableScore: DefaultUnreliableScore,
		DefaultScore:    DefaultSourceReliability,
	}
}

func clampReliability(r float64) float64 {
	if r < DefaultMinReliability {
		return DefaultMinReliability
	}
	if r > DefaultMaxReliability {
		return DefaultMaxReliability
	}
	return r
}

// Compute builds the table without touching the knowledge base.
func (c *ReliabilityCalculator) Compute(kb domain.KnowledgeBase) ReliabilityTable {
	contradicted := make(map[string]bool)
	if kb != nil {
		for _, p := range kb.All() {
			src := p.Epistemic.SourceID
			contradicted[src] = contradicted[src] || len(p.Epistemic.Contradicts) > 0
		}
	}

	scores := make(map[string]float64, len(contradicted))
	for src, bad := range contradicted {
		if bad {
			scores[src] = clampReliability(c.UnreliableScore)
		} else {
			scores[src] = clampReliability(c.ReliableScore)
		}
		c.logger.Debug("source reliability",
			zap.String("source_id", src),
			zap.Bool("contradicted", bad),
			zap.Float64("score", scores[src]))
	}
	return NewReliabilityTable(scores, clampReliability(c.DefaultScore))
}

// Apply writes each proposition's source score onto its reliability field.
func (c *ReliabilityCalculator) Apply(kb domain.KnowledgeBase, table ReliabilityTable) {
	if kb == nil {
		return
	}
	for _, p := range kb.All() {
		r := table.Lookup(p.Epistemic.SourceID)
		p.Epistemic.ReliabilityScore = &r
	}
}
