package service

import (
	"testing"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sourced(subject, value, sourceID, sourceType string, confidence float64) *domain.Proposition {
	return domain.NewProposition(subject, "be", value, false, sourceID, sourceType, confidence)
}

func kbOf(t *testing.T, props ...*domain.Proposition) *store.KnowledgeBase {
	t.Helper()
	kb := store.NewKnowledgeBase()
	for _, p := range props {
		require.NoError(t, kb.Add(p))
	}
	return kb
}

func TestBiasDetector_SourceMonoculture(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())
	a := sourced("ai", "useful", "s1", "blog", 0.7)
	b := sourced("ai", "dangerous", "s2", "blog", 0.6)
	c := sourced("ai", "overhyped", "s3", "blog", 0.9)
	kb := kbOf(t, a, b, c)

	added := d.Apply(d.Detect(kb))

	assert.Equal(t, 3, added)
	for _, p := range []*domain.Proposition{a, b, c} {
		assert.Equal(t, []domain.BiasFlag{domain.FlagSourceMonoculture}, p.Epistemic.BiasFlags)
	}
}

func TestBiasDetector_SourceMonoculture_DiverseSources(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())
	kb := kbOf(t,
		sourced("ai", "useful", "s1", "blog", 0.7),
		sourced("ai", "dangerous", "s2", "blog", 0.6),
		sourced("ai", "overhyped", "s3", "blog", 0.9),
		sourced("ai", "regulated", "s4", "journal", 0.8),
	)

	assert.Empty(t, d.Detect(kb))
}

func TestBiasDetector_SourceMonoculture_IgnoresLowConfidence(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())
	low := sourced("ai", "useful", "s1", "blog", 0.3)
	high := sourced("ai", "dangerous", "s2", "blog", 0.8)
	kb := kbOf(t, low, high)

	d.Apply(d.Detect(kb))

	assert.Empty(t, low.Epistemic.BiasFlags)
	assert.True(t, high.Epistemic.HasFlag(domain.FlagSourceMonoculture))
}

func TestBiasDetector_SourceMonoculture_MissingTypeIsOneBucket(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())
	kb := kbOf(t,
		sourced("ai", "useful", "s1", "", 0.7),
		sourced("ai", "dangerous", "s2", "", 0.7),
	)
	assert.Len(t, d.Detect(kb), 2)

	kb = kbOf(t,
		sourced("ai", "useful", "s1", "", 0.7),
		sourced("ai", "dangerous", "s2", "blog", 0.7),
	)
	assert.Empty(t, d.Detect(kb))
}

func TestBiasDetector_SourceMonoculture_BelowSubjectThreshold(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())
	kb := kbOf(t, sourced("ai", "useful", "s1", "blog", 0.9))

	assert.Empty(t, d.Detect(kb))
}

func TestBiasDetector_ArgumentBalance(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())

	oneSided := sourced("x", "a", "s1", "blog", 0.8)
	ally := sourced("x", "b", "s2", "news", 0.5)
	domain.LinkSupport(oneSided, ally)

	contested := sourced("y", "a", "s3", "blog", 0.8)
	friend := sourced("y", "b", "s4", "news", 0.5)
	rival := sourced("y", "c", "s5", "journal", 0.5)
	domain.LinkSupport(contested, friend)
	domain.LinkContradiction(contested, rival)

	kb := kbOf(t, oneSided, ally, contested, friend, rival)
	d.Apply(d.Detect(kb))

	assert.True(t, oneSided.Epistemic.HasFlag(domain.FlagUnbalancedArg))
	assert.False(t, contested.Epistemic.HasFlag(domain.FlagUnbalancedArg))
	assert.False(t, ally.Epistemic.HasFlag(domain.FlagUnbalancedArg), "below threshold")
}

func TestBiasDetector_ApplyIsIdempotent(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())
	kb := kbOf(t,
		sourced("ai", "useful", "s1", "blog", 0.7),
		sourced("ai", "dangerous", "s2", "blog", 0.7),
	)

	assert.Equal(t, 2, d.Apply(d.Detect(kb)))
	assert.Equal(t, 0, d.Apply(d.Detect(kb)))
	for _, p := range kb.All() {
		assert.Len(t, p.Epistemic.BiasFlags, 1)
	}
}

func TestBiasDetector_EmptyKnowledgeBase(t *testing.T) {
	d := NewBiasDetector(zap.NewNop())
	assert.Empty(t, d.Detect(store.NewKnowledgeBase()))
	assert.Empty(t, d.Detect(nil))
}
