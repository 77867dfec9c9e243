package service

import (
	"github.com/Harshitk-cp/credence/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultSubjectThreshold           = 2
	DefaultDiversityConfidence        = 0.6
	DefaultDiversityThreshold         = 2
	DefaultBalanceConfidenceThreshold = 0.7

	unknownSourceType = "unknown_type"
)

// BiasDetector flags source monoculture and one-sided argumentation. It runs once over
// the whole knowledge base after linking.
type BiasDetector struct {
	logger *zap.Logger

	SubjectThreshold           int
	DiversityConfidence        float64
	DiversityThreshold         int
	BalanceConfidenceThreshold float64
}

func NewBiasDetector(logger *zap.Logger) *BiasDetector {
	return &BiasDetector{
		logger:                     logger,
		SubjectThreshold:           DefaultSubjectThreshold,
		DiversityConfidence:        DefaultDiversityConfidence,
		DiversityThreshold:         DefaultDiversityThreshold,
		BalanceConfidenceThreshold: DefaultBalanceConfidenceThreshold,
	}
}

// BiasFinding is a flag to be set on a proposition.
type BiasFinding struct {
	Prop *domain.Proposition
	Flag domain.BiasFlag
}

// Detect computes all findings without touching the knowledge base.
func (d *BiasDetector) Detect(kb domain.KnowledgeBase) []BiasFinding {
	if kb == nil || kb.Len() == 0 {
		return nil
	}
	findings := d.sourceDiversity(kb)
	return append(findings, d.argumentBalance(kb)...)
}

// Apply sets the flags found by Detect and returns how many were newly added.
func (d *BiasDetector) Apply(findings []BiasFinding) int {
	added := 0
	for _, f := range findings {
		if f.Prop.Epistemic.AddFlag(f.Flag) {
			added++
		}
	}
	return added
}

func (d *BiasDetector) sourceDiversity(kb domain.KnowledgeBase) []BiasFinding {
	var findings []BiasFinding

	for _, subject := range subjectsOf(kb) {
		props := kb.BySubject(subject)
		if len(props) < d.SubjectThreshold {
			continue
		}

		var confident []*domain.Proposition
		types := make(map[string]struct{})
		for _, p := range props {
			if p.Epistemic.InitialConfidence < d.DiversityConfidence {
				continue
			}
			confident = append(confident, p)
			st := p.Epistemic.SourceType
			if st == "" {
				st = unknownSourceType
			}
			types[st] = struct{}{}
		}

		if len(confident) == 0 || len(types) >= d.DiversityThreshold {
			continue
		}

		d.logger.Debug("source monoculture",
			zap.String("subject", subject),
			zap.Int("source_types", len(types)),
			zap.Int("propositions", len(confident)))
		for _, p := range confident {
			findings = append(findings, BiasFinding{Prop: p, Flag: domain.FlagSourceMonoculture})
		}
	}
	return findings
}

func (d *BiasDetector) argumentBalance(kb domain.KnowledgeBase) []BiasFinding {
	var findings []BiasFinding
	for _, p := range kb.All() {
		ep := &p.Epistemic
		if ep.ComputedConfidence >= d.BalanceConfidenceThreshold && len(ep.Supports) > 0 && len(ep.Contradicts) == 0 {
			findings = append(findings, BiasFinding{Prop: p, Flag: domain.FlagUnbalancedArg})
		}
	}
	return findings
}

// subjectsOf returns distinct non-empty subjects in first-seen order.
func subjectsOf(kb domain.KnowledgeBase) []string {
	seen := make(map[string]struct{})
	var subjects []string
	for _, p := range kb.All() {
		if p.SubjectLemma == "" {
			continue
		}
		if _, ok := seen[p.SubjectLemma]; ok {
			continue
		}
		seen[p.SubjectLemma] = struct{}{}
		subjects = append(subjects, p.SubjectLemma)
	}
	return subjects
}
