package plausibility

import (
	"context"

	"github.com/Harshitk-cp/credence/internal/domain"
	"go.uber.org/zap"
)

// RuleValidator scores propositions with keyword rules. It never fails and never
// blocks, so it is a safe default collaborator.
type RuleValidator struct {
	rules  *RuleSet
	logger *zap.Logger
}

func NewRuleValidator(rules *RuleSet, logger *zap.Logger) *RuleValidator {
	if rules == nil {
		rules = DefaultRules()
	}
	logger.Info("plausibility rules loaded", zap.Int("rules", rules.Len()))
	return &RuleValidator{rules: rules, logger: logger}
}

var _ domain.PlausibilityValidator = (*RuleValidator)(nil)

func (v *RuleValidator) Assess(_ context.Context, p *domain.Proposition) (*domain.Assessment, error) {
	if p == nil {
		return nil, nil
	}

	rule, ok := v.rules.bySubject[normalize(p.SubjectLemma)]
	if !ok {
		return domain.NewAssessment(v.rules.defaultScore()), nil
	}

	score, note := rule.KnownScore, rule.KnownNote
	if _, known := rule.values[normalize(p.ValueLemma)]; !known {
		score, note = rule.UnknownScore, rule.UnknownNote
	}

	s := v.rules.defaultScore()
	if score != nil {
		s = *score
	}

	v.logger.Debug("plausibility rule matched",
		zap.String("subject", rule.Subject),
		zap.String("value", p.ValueLemma),
		zap.Float64("score", s))

	if note == "" {
		return domain.NewAssessment(s), nil
	}
	return domain.NewAssessment(s, note), nil
}
