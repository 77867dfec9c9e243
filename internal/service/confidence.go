package service

import (
	"context"
	"math"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultSupportWeight       = 0.10
	DefaultContradictionWeight = 0.35
	DefaultReliabilityDamping  = 0.5
	DefaultBiasPenalty         = 0.85
	DefaultCircularPenalty     = 0.75
	DefaultPlausibilityWeight  = 1.0
	DefaultMaxPasses           = 1
	DefaultEpsilon             = 1e-4
)

// Propagator combines initial confidence, source reliability, neighbour evidence,
// bias penalties and plausibility into a computed confidence.
type Propagator struct {
	logger *zap.Logger

	SupportWeight       float64
	ContradictionWeight float64
	ReliabilityDamping  float64
	BiasPenalty         float64
	CircularPenalty     float64
	PlausibilityWeight  float64
	// MaxPasses bounds the number of snapshot passes. One pass reads only the
	// confidences from before propagation; more passes iterate toward a fixed point.
	MaxPasses int
	Epsilon   float64
}

func NewPropagator(logger *zap.Logger) *Propagator {
	return &Propagator{
		logger:              logger,
		SupportWeight:       DefaultSupportWeight,
		ContradictionWeight: DefaultContradictionWeight,
		ReliabilityDamping:  DefaultReliabilityDamping,
		BiasPenalty:         DefaultBiasPenalty,
		CircularPenalty:     DefaultCircularPenalty,
		PlausibilityWeight:  DefaultPlausibilityWeight,
		MaxPasses:           DefaultMaxPasses,
		Epsilon:             DefaultEpsilon,
	}
}

type confidenceLookup func(id uuid.UUID) (float64, bool)

// compute returns the new confidence for prop, reading neighbour confidences through
// lookup. Neighbours the lookup does not know are ignored.
func (p *Propagator) compute(prop *domain.Proposition, lookup confidenceLookup, rel ReliabilityTable) float64 {
	ep := &prop.Epistemic
	initial := ep.InitialConfidence
	reliability := rel.Lookup(ep.SourceID)

	current := initial*(1-p.ReliabilityDamping) + initial*reliability*p.ReliabilityDamping

	support := 0.0
	for _, id := range ep.Supports {
		if c, ok := lookup(id); ok {
			support += p.SupportWeight * c * (1 - current)
		}
	}
	current += support

	contradiction := 0.0
	for _, id := range ep.Contradicts {
		if c, ok := lookup(id); ok {
			contradiction += p.ContradictionWeight * c * current
		}
	}
	current -= contradiction

	if ep.HasFlag(domain.FlagCircularSupport) {
		current *= p.CircularPenalty
	}
	if ep.HasOtherFlag(domain.FlagCircularSupport) {
		current *= p.BiasPenalty
	}

	if ep.PlausibilityScore != nil {
		w := p.PlausibilityWeight
		current *= domain.ClampUnit(*ep.PlausibilityScore)*w + (1 - w)
	}

	return domain.ClampConfidence(current)
}

// Update recomputes and stores a single proposition's confidence against the live
// state of kb.
func (p *Propagator) Update(prop *domain.Proposition, kb domain.KnowledgeBase, rel ReliabilityTable) float64 {
	lookup := func(id uuid.UUID) (float64, bool) {
		other, err := kb.GetByID(id)
		if err != nil {
			return 0, false
		}
		return other.Epistemic.ComputedConfidence, true
	}
	prop.Epistemic.ComputedConfidence = p.compute(prop, lookup, rel)
	return prop.Epistemic.ComputedConfidence
}

// PropagationResult reports how a propagation run ended.
type PropagationResult struct {
	Passes    int
	Converged bool
	MaxDelta  float64
}

// Propagate recomputes every proposition. Each pass reads a frozen snapshot of the
// previous pass, so the result does not depend on enumeration order. Values are
// committed only after the last pass; a cancelled context leaves kb untouched.
func (p *Propagator) Propagate(ctx context.Context, kb domain.KnowledgeBase, rel ReliabilityTable) (PropagationResult, error) {
	var res PropagationResult
	if kb == nil || kb.Len() == 0 {
		return res, nil
	}

	props := kb.All()
	snapshot := make(map[uuid.UUID]float64, len(props))
	for _, prop := range props {
		snapshot[prop.ID] = prop.Epistemic.ComputedConfidence
	}

	passes := p.MaxPasses
	if passes < 1 {
		passes = 1
	}

	for res.Passes < passes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		prev := snapshot
		lookup := func(id uuid.UUID) (float64, bool) {
			c, ok := prev[id]
			return c, ok
		}

		next := make(map[uuid.UUID]float64, len(props))
		res.MaxDelta = 0
		for _, prop := range props {
			c := p.compute(prop, lookup, rel)
			next[prop.ID] = c
			res.MaxDelta = math.Max(res.MaxDelta, math.Abs(c-prev[prop.ID]))
		}
		snapshot = next
		res.Passes++

		if res.MaxDelta < p.Epsilon {
			res.Converged = true
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	for _, prop := range props {
		old := prop.Epistemic.ComputedConfidence
		prop.Epistemic.ComputedConfidence = snapshot[prop.ID]
		p.logger.Debug("confidence updated",
			zap.String("id", prop.ID.String()),
			zap.Float64("old_confidence", old),
			zap.Float64("new_confidence", prop.Epistemic.ComputedConfidence))
	}

	p.logger.Info("confidence propagation complete",
		zap.Int("propositions", len(props)),
		zap.Int("passes", res.Passes),
		zap.Bool("converged", res.Converged),
		zap.Float64("max_delta", res.MaxDelta))
	return res, nil
}
