package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinConfidence = 0.01
	MaxConfidence = 0.99
)

// ClampConfidence bounds p to [MinConfidence, MaxConfidence].
func ClampConfidence(p float64) float64 {
	if p < MinConfidence {
		return MinConfidence
	}
	if p > MaxConfidence {
		return MaxConfidence
	}
	return p
}

// ClampUnit bounds p to [0, 1].
func ClampUnit(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Proposition is a single subject-relation-value claim extracted from text.
// An empty lemma means extraction was ambiguous; such propositions are never linked.
type Proposition struct {
	ID            uuid.UUID     `json:"id"`
	SubjectLemma  string        `json:"subject_lemma,omitempty"`
	RelationLemma string        `json:"relation_lemma,omitempty"`
	ValueLemma    string        `json:"value_lemma,omitempty"`
	IsNegated     bool          `json:"is_negated"`
	TextSpan      string        `json:"text_span,omitempty"`
	SourceText    string        `json:"source_text,omitempty"`
	Epistemic     EpistemicData `json:"epistemic"`
}

// EpistemicData is owned by exactly one Proposition.
//
// Field ownership during a pipeline run:
//   - InitialConfidence: set by NewProposition, never written afterwards.
//   - Supports, Contradicts: written only by the linker.
//   - BiasFlags: written by the bias and cycle detectors.
//   - ReliabilityScore: written only by the reliability calculator.
//   - ComputedConfidence: written only by the propagator (and reset between runs).
//   - PlausibilityScore, ValidationNotes: written once, before insertion.
type EpistemicData struct {
	SourceID           string      `json:"source_id"`
	SourceType         string      `json:"source_type,omitempty"`
	Timestamp          time.Time   `json:"timestamp"`
	InitialConfidence  float64     `json:"initial_confidence"`
	ComputedConfidence float64     `json:"computed_confidence"`
	ReliabilityScore   *float64    `json:"reliability_score,omitempty"`
	Supports           []uuid.UUID `json:"supports"`
	Contradicts        []uuid.UUID `json:"contradicts"`
	BiasFlags          []BiasFlag  `json:"bias_flags"`
	PlausibilityScore  *float64    `json:"plausibility_score,omitempty"`
	ValidationNotes    []string    `json:"validation_notes"`
}

// NewProposition creates a proposition with a fresh id. The initial confidence is
// clamped and copied into the computed confidence.
func NewProposition(subject, relation, value string, negated bool, sourceID, sourceType string, initialConfidence float64) *Proposition {
	conf := ClampConfidence(initialConfidence)
	return &Proposition{
		ID:            uuid.New(),
		SubjectLemma:  strings.TrimSpace(subject),
		RelationLemma: strings.TrimSpace(relation),
		ValueLemma:    strings.TrimSpace(value),
		IsNegated:     negated,
		Epistemic: EpistemicData{
			SourceID:           sourceID,
			SourceType:         sourceType,
			Timestamp:          time.Now().UTC(),
			InitialConfidence:  conf,
			ComputedConfidence: conf,
			Supports:           []uuid.UUID{},
			Contradicts:        []uuid.UUID{},
			BiasFlags:          []BiasFlag{},
			ValidationNotes:    []string{},
		},
	}
}

// Linkable reports whether subject, relation and value are all present.
func (p *Proposition) Linkable() bool {
	return p.SubjectLemma != "" && p.RelationLemma != "" && p.ValueLemma != ""
}

// Statement renders the claim as a short sentence for collaborators that work on text.
func (p *Proposition) Statement() string {
	if p.TextSpan != "" {
		return p.TextSpan
	}
	parts := []string{p.SubjectLemma}
	if p.IsNegated {
		parts = append(parts, "not")
	}
	parts = append(parts, p.RelationLemma, p.ValueLemma)
	return strings.Join(parts, " ")
}

// HasFlag reports whether flag is set.
func (e *EpistemicData) HasFlag(flag BiasFlag) bool {
	for _, f := range e.BiasFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// AddFlag sets flag once. It returns false if the flag was already present.
func (e *EpistemicData) AddFlag(flag BiasFlag) bool {
	if e.HasFlag(flag) {
		return false
	}
	e.BiasFlags = append(e.BiasFlags, flag)
	return true
}

// HasOtherFlag reports whether any flag other than except is set.
func (e *EpistemicData) HasOtherFlag(except BiasFlag) bool {
	for _, f := range e.BiasFlags {
		if f != except {
			return true
		}
	}
	return false
}

// ResetDerived clears everything the pipeline stages compute, leaving links,
// provenance and plausibility untouched.
func (e *EpistemicData) ResetDerived() {
	e.BiasFlags = []BiasFlag{}
	e.ReliabilityScore = nil
	e.ComputedConfidence = e.InitialConfidence
}

// SetPlausibility merges a collaborator assessment into the record.
func (e *EpistemicData) SetPlausibility(a *Assessment) {
	if a == nil {
		return
	}
	if a.Score != nil {
		s := ClampUnit(*a.Score)
		e.PlausibilityScore = &s
	}
	e.ValidationNotes = append(e.ValidationNotes, a.Notes...)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// LinkSupport records a symmetric support edge between a and b.
// Self links are ignored; repeated links are no-ops.
func LinkSupport(a, b *Proposition) bool {
	if a == nil || b == nil || a.ID == b.ID {
		return false
	}
	added := false
	if !containsID(a.Epistemic.Supports, b.ID) {
		a.Epistemic.Supports = append(a.Epistemic.Supports, b.ID)
		added = true
	}
	if !containsID(b.Epistemic.Supports, a.ID) {
		b.Epistemic.Supports = append(b.Epistemic.Supports, a.ID)
		added = true
	}
	return added
}

// LinkContradiction records a symmetric contradiction edge between a and b.
func LinkContradiction(a, b *Proposition) bool {
	if a == nil || b == nil || a.ID == b.ID {
		return false
	}
	added := false
	if !containsID(a.Epistemic.Contradicts, b.ID) {
		a.Epistemic.Contradicts = append(a.Epistemic.Contradicts, b.ID)
		added = true
	}
	if !containsID(b.Epistemic.Contradicts, a.ID) {
		b.Epistemic.Contradicts = append(b.Epistemic.Contradicts, a.ID)
		added = true
	}
	return added
}

// Assessment is the output of a plausibility collaborator.
type Assessment struct {
	Score *float64 `json:"score,omitempty"`
	Notes []string `json:"notes,omitempty"`
}

// NewAssessment is a convenience for collaborators that always produce a score.
func NewAssessment(score float64, notes ...string) *Assessment {
	s := ClampUnit(score)
	return &Assessment{Score: &s, Notes: notes}
}
