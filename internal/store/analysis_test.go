package store

import (
	"testing"
	"time"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisStore_PutGet(t *testing.T) {
	s := NewAnalysisStore(time.Minute, time.Minute)
	a := &domain.Analysis{ID: uuid.New(), KB: NewKnowledgeBase()}

	require.NoError(t, s.Put(a))
	assert.ErrorIs(t, s.Put(nil), ErrNilValue)

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, 1, s.Count())

	s.Delete(a.ID)
	_, err = s.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnalysisStore_Expires(t *testing.T) {
	s := NewAnalysisStore(10*time.Millisecond, time.Hour)
	a := &domain.Analysis{ID: uuid.New()}
	require.NoError(t, s.Put(a))

	time.Sleep(30 * time.Millisecond)

	_, err := s.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
