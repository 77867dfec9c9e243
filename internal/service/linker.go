package service

import (
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/lexicon"
	"go.uber.org/zap"
)

// LinkResult counts the edges one Link call added.
type LinkResult struct {
	Supports       int
	Contradictions int
}

func (r *LinkResult) add(o LinkResult) {
	r.Supports += o.Supports
	r.Contradictions += o.Contradictions
}

// Linker establishes support and contradiction edges between a new proposition and
// the propositions already indexed. Every rule requires the same subject, so only the
// subject partition is scanned.
type Linker struct {
	lexicon *lexicon.Index
	logger  *zap.Logger
}

func NewLinker(lex *lexicon.Index, logger *zap.Logger) *Linker {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Linker{lexicon: lex, logger: logger}
}

// Match applies the linking rules in priority order and returns the first that fires.
func (l *Linker) Match(newProp, old *domain.Proposition) domain.MatchKind {
	if newProp == nil || old == nil || newProp.ID == old.ID {
		return domain.MatchNone
	}
	if !newProp.Linkable() || !old.Linkable() {
		return domain.MatchNone
	}
	if newProp.SubjectLemma != old.SubjectLemma {
		return domain.MatchNone
	}

	sameNeg := newProp.IsNegated == old.IsNegated
	sameVal := newProp.ValueLemma == old.ValueLemma

	if newProp.RelationLemma == old.RelationLemma {
		switch {
		case sameVal && !sameNeg:
			return domain.MatchDirectContradiction
		case sameNeg && l.lexicon.IsOpposite(newProp.ValueLemma, old.ValueLemma):
			return domain.MatchOppositeConcept
		case sameNeg && (sameVal || l.lexicon.IsSynonym(newProp.ValueLemma, old.ValueLemma)):
			return domain.MatchSupport
		}
		return domain.MatchNone
	}

	// inverse comparatives: "a bigger x" vs "a smaller x"
	if sameVal && sameNeg && l.lexicon.IsOpposite(newProp.RelationLemma, old.RelationLemma) {
		return domain.MatchRelationalOpposition
	}
	return domain.MatchNone
}

// Link compares p with every proposition index holds for p's subject and records
// symmetric edges on both sides. p itself is expected not to be in the index yet.
func (l *Linker) Link(p *domain.Proposition, index domain.PropositionIndex) LinkResult {
	var res LinkResult
	if p == nil || index == nil || !p.Linkable() {
		return res
	}

	for _, old := range index.BySubject(p.SubjectLemma) {
		kind := l.Match(p, old)
		switch {
		case kind == domain.MatchNone:
			continue
		case kind.IsContradiction():
			if domain.LinkContradiction(p, old) {
				res.Contradictions++
			}
		default:
			if domain.LinkSupport(p, old) {
				res.Supports++
			}
		}
		l.logger.Debug("linked propositions",
			zap.String("match", string(kind)),
			zap.String("new_id", p.ID.String()),
			zap.String("existing_id", old.ID.String()),
			zap.String("subject", p.SubjectLemma))
	}
	return res
}
