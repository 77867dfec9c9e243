package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/Harshitk-cp/credence/internal/domain"
	"go.uber.org/zap"
)

const DefaultAssessTimeout = 15 * time.Second

// Validator asks an LLM how plausible each proposition is on its own.
type Validator struct {
	client  domain.LLMClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewValidator(client domain.LLMClient, timeout time.Duration, logger *zap.Logger) *Validator {
	if timeout <= 0 {
		timeout = DefaultAssessTimeout
	}
	return &Validator{client: client, timeout: timeout, logger: logger}
}

var _ domain.PlausibilityValidator = (*Validator)(nil)

func (v *Validator) Assess(ctx context.Context, p *domain.Proposition) (*domain.Assessment, error) {
	if p == nil || !p.Linkable() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	statement := p.Statement()
	verdict, err := v.client.AssessPlausibility(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("llm plausibility for %s: %w", p.ID, err)
	}
	if verdict == nil {
		return nil, nil
	}

	v.logger.Debug("llm plausibility verdict",
		zap.String("statement", statement),
		zap.Float64("score", verdict.Score))

	if verdict.Note == "" {
		return domain.NewAssessment(verdict.Score), nil
	}
	return domain.NewAssessment(verdict.Score, verdict.Note), nil
}
