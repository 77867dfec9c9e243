package store

import (
	"sync"
	"testing"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProp(subject, relation, value string) *domain.Proposition {
	return domain.NewProposition(subject, relation, value, false, "src", "", 0.6)
}

func TestKnowledgeBase_AddAndGet(t *testing.T) {
	kb := NewKnowledgeBase()
	p := newProp("sky", "be", "blue")

	require.NoError(t, kb.Add(p))
	assert.ErrorIs(t, kb.Add(p), ErrDuplicateID)
	assert.ErrorIs(t, kb.Add(nil), ErrNilValue)

	got, err := kb.GetByID(p.ID)
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = kb.GetByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, kb.Len())
}

func TestKnowledgeBase_InsertionOrder(t *testing.T) {
	kb := NewKnowledgeBase()
	a := newProp("a", "be", "x")
	b := newProp("b", "be", "y")
	c := newProp("a", "be", "z")
	orphan := newProp("", "be", "w")

	for _, p := range []*domain.Proposition{a, b, c, orphan} {
		require.NoError(t, kb.Add(p))
	}

	assert.Equal(t, []*domain.Proposition{a, b, c, orphan}, kb.All())
	assert.Equal(t, []*domain.Proposition{a, c}, kb.BySubject("a"))
	assert.Empty(t, kb.BySubject(""))
}

func TestKnowledgeBase_GetLinked(t *testing.T) {
	kb := NewKnowledgeBase()
	root := newProp("d", "be", "big")
	sup := newProp("d", "be", "large")
	con := newProp("d", "be", "small")
	for _, p := range []*domain.Proposition{root, sup, con} {
		require.NoError(t, kb.Add(p))
	}
	domain.LinkSupport(root, sup)
	domain.LinkContradiction(root, con)
	// dangling id is skipped
	root.Epistemic.Supports = append(root.Epistemic.Supports, uuid.New())

	tests := []struct {
		kind domain.LinkKind
		want []*domain.Proposition
	}{
		{domain.LinkSupports, []*domain.Proposition{sup}},
		{domain.LinkContradicts, []*domain.Proposition{con}},
		{domain.LinkAll, []*domain.Proposition{sup, con}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := kb.GetLinked(root.ID, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := kb.GetLinked(uuid.New(), domain.LinkAll)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKnowledgeBase_ConcurrentAdd(t *testing.T) {
	kb := NewKnowledgeBase()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = kb.Add(newProp("s", "be", "v"))
			_ = kb.BySubject("s")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, kb.Len())
	assert.Len(t, kb.BySubject("s"), 50)
}
