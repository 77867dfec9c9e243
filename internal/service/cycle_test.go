package service

import (
	"testing"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// directed wires one-way support edges, which symmetric linking never produces.
func directed(from, to *domain.Proposition) {
	from.Epistemic.Supports = append(from.Epistemic.Supports, to.ID)
}

func TestCycleDetector_ThreeNodeCycle(t *testing.T) {
	d := NewCycleDetector(zap.NewNop())
	a := prop("x", "be", "a", false)
	b := prop("x", "be", "b", false)
	c := prop("x", "be", "c", false)
	directed(a, b)
	directed(b, c)
	directed(c, a)
	kb := kbOf(t, a, b, c)

	ids := d.Detect(kb)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID, c.ID}, ids)
	assert.Equal(t, 3, d.Apply(kb, ids))

	for _, p := range []*domain.Proposition{a, b, c} {
		assert.Equal(t, []domain.BiasFlag{domain.FlagCircularSupport}, p.Epistemic.BiasFlags)
	}

	assert.Equal(t, 0, d.Apply(kb, d.Detect(kb)))
}

func TestCycleDetector_Acyclic(t *testing.T) {
	d := NewCycleDetector(zap.NewNop())
	a := prop("x", "be", "a", false)
	b := prop("x", "be", "b", false)
	c := prop("x", "be", "c", false)
	directed(a, b)
	directed(a, c)
	directed(b, c)
	kb := kbOf(t, a, b, c)

	assert.Empty(t, d.Detect(kb))
}

func TestCycleDetector_SelfLoop(t *testing.T) {
	d := NewCycleDetector(zap.NewNop())
	a := prop("x", "be", "a", false)
	b := prop("x", "be", "b", false)
	directed(a, a)
	directed(b, a)
	kb := kbOf(t, b, a)

	assert.Equal(t, []uuid.UUID{a.ID}, d.Detect(kb))
}

func TestCycleDetector_OverlappingCyclesFlaggedOnce(t *testing.T) {
	d := NewCycleDetector(zap.NewNop())
	a := prop("x", "be", "a", false)
	b := prop("x", "be", "b", false)
	c := prop("x", "be", "c", false)
	directed(a, b)
	directed(b, a)
	directed(b, c)
	directed(c, b)
	kb := kbOf(t, a, b, c)

	ids := d.Detect(kb)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID, c.ID}, ids)
}

func TestCycleDetector_DanglingEdgeIgnored(t *testing.T) {
	d := NewCycleDetector(zap.NewNop())
	a := prop("x", "be", "a", false)
	a.Epistemic.Supports = append(a.Epistemic.Supports, uuid.New())
	kb := kbOf(t, a)

	assert.Empty(t, d.Detect(kb))
}

func TestCycleDetector_SymmetricPairs(t *testing.T) {
	a := prop("x", "be", "big", false)
	b := prop("x", "be", "large", false)
	domain.LinkSupport(a, b)
	kb := kbOf(t, a, b)

	d := NewCycleDetector(zap.NewNop())
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, d.Detect(kb))

	d.SkipMirrorEdges = true
	assert.Empty(t, d.Detect(kb))
}

func TestCycleDetector_LongChainDoesNotRecurse(t *testing.T) {
	d := NewCycleDetector(zap.NewNop())
	const n = 20000
	props := make([]*domain.Proposition, n)
	for i := range props {
		props[i] = prop("x", "be", "v", false)
	}
	for i := 0; i+1 < n; i++ {
		directed(props[i], props[i+1])
	}
	directed(props[n-1], props[0])
	kb := kbOf(t, props...)

	assert.Len(t, d.Detect(kb), n)
}
