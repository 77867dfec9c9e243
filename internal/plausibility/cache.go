package plausibility

import (
	"context"
	"strconv"
	"time"

	"github.com/Harshitk-cp/credence/internal/domain"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const DefaultCacheTTL = 30 * time.Minute

// CachingValidator memoizes another validator's assessments by claim content, so
// repeated claims from different sources hit the backend once per TTL. Errors are
// not cached.
type CachingValidator struct {
	next   domain.PlausibilityValidator
	cache  *gocache.Cache
	logger *zap.Logger
}

func NewCachingValidator(next domain.PlausibilityValidator, ttl time.Duration, logger *zap.Logger) *CachingValidator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachingValidator{
		next:   next,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

var _ domain.PlausibilityValidator = (*CachingValidator)(nil)

func (v *CachingValidator) Assess(ctx context.Context, p *domain.Proposition) (*domain.Assessment, error) {
	if p == nil {
		return nil, nil
	}

	key := cacheKey(p)
	if cached, ok := v.cache.Get(key); ok {
		return clone(cached.(*domain.Assessment)), nil
	}

	a, err := v.next.Assess(ctx, p)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}

	v.cache.SetDefault(key, clone(a))
	v.logger.Debug("plausibility cached", zap.String("key", key))
	return a, nil
}

// Len returns the number of live cache entries.
func (v *CachingValidator) Len() int { return v.cache.ItemCount() }

func cacheKey(p *domain.Proposition) string {
	return normalize(p.SubjectLemma) + "\x1f" +
		normalize(p.RelationLemma) + "\x1f" +
		normalize(p.ValueLemma) + "\x1f" +
		strconv.FormatBool(p.IsNegated)
}

func clone(a *domain.Assessment) *domain.Assessment {
	out := &domain.Assessment{Notes: append([]string(nil), a.Notes...)}
	if a.Score != nil {
		s := *a.Score
		out.Score = &s
	}
	return out
}
