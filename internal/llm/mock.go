package llm

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/credence/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	AssessPlausibilityResponse *domain.PlausibilityVerdict
	AssessPlausibilityError    error
	// Verdicts overrides the default response per statement.
	Verdicts map[string]*domain.PlausibilityVerdict

	// Call tracking for assertions
	mu                      sync.Mutex
	AssessPlausibilityCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{
		AssessPlausibilityResponse: &domain.PlausibilityVerdict{Score: 0.8},
		Verdicts:                   map[string]*domain.PlausibilityVerdict{},
	}
}

func (m *MockClient) AssessPlausibility(ctx context.Context, statement string) (*domain.PlausibilityVerdict, error) {
	m.mu.Lock()
	m.AssessPlausibilityCalls = append(m.AssessPlausibilityCalls, statement)
	m.mu.Unlock()

	if m.AssessPlausibilityError != nil {
		return nil, m.AssessPlausibilityError
	}
	if v, ok := m.Verdicts[statement]; ok {
		return v, nil
	}
	return m.AssessPlausibilityResponse, nil
}

// Calls returns a copy of the recorded statements.
func (m *MockClient) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.AssessPlausibilityCalls...)
}
