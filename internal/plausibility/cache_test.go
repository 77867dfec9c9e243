package plausibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) Assess(ctx context.Context, p *domain.Proposition) (*domain.Assessment, error) {
	args := m.Called(ctx, p)
	a, _ := args.Get(0).(*domain.Assessment)
	return a, args.Error(1)
}

func TestCachingValidator_HitsBackendOnce(t *testing.T) {
	inner := new(mockValidator)
	inner.On("Assess", mock.Anything, mock.Anything).
		Return(domain.NewAssessment(0.2, "odd"), nil).Once()
	v := NewCachingValidator(inner, time.Minute, zap.NewNop())

	first := claim("sky", "green")
	second := domain.NewProposition("sky", "be", "green", false, "s2", "blog", 0.9)

	a1, err := v.Assess(context.Background(), first)
	require.NoError(t, err)
	a2, err := v.Assess(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, 0.2, *a1.Score)
	assert.Equal(t, 0.2, *a2.Score)
	assert.Equal(t, []string{"odd"}, a2.Notes)
	assert.Equal(t, 1, v.Len())
	inner.AssertNumberOfCalls(t, "Assess", 1)
}

func TestCachingValidator_KeyIncludesNegation(t *testing.T) {
	inner := new(mockValidator)
	inner.On("Assess", mock.Anything, mock.Anything).Return(domain.NewAssessment(0.8), nil)
	v := NewCachingValidator(inner, time.Minute, zap.NewNop())

	pos := claim("sky", "blue")
	neg := domain.NewProposition("sky", "be", "blue", true, "s1", "news", 0.7)

	_, err := v.Assess(context.Background(), pos)
	require.NoError(t, err)
	_, err = v.Assess(context.Background(), neg)
	require.NoError(t, err)

	inner.AssertNumberOfCalls(t, "Assess", 2)
}

func TestCachingValidator_ErrorsNotCached(t *testing.T) {
	inner := new(mockValidator)
	inner.On("Assess", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
	inner.On("Assess", mock.Anything, mock.Anything).Return(domain.NewAssessment(0.9), nil).Once()
	v := NewCachingValidator(inner, time.Minute, zap.NewNop())

	_, err := v.Assess(context.Background(), claim("water", "ice"))
	require.Error(t, err)

	a, err := v.Assess(context.Background(), claim("water", "ice"))
	require.NoError(t, err)
	assert.Equal(t, 0.9, *a.Score)
	inner.AssertExpectations(t)
}

func TestCachingValidator_ReturnsCopies(t *testing.T) {
	v := NewCachingValidator(NewRuleValidator(nil, zap.NewNop()), time.Minute, zap.NewNop())

	a, err := v.Assess(context.Background(), claim("sky", "green"))
	require.NoError(t, err)
	a.Notes[0] = "tampered"

	b, err := v.Assess(context.Background(), claim("sky", "green"))
	require.NoError(t, err)
	assert.Equal(t, "Value is an uncommon color for the sky.", b.Notes[0])
}
