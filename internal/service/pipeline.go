package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/lexicon"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoPropositions = errors.New("no propositions to analyze")
	ErrStageFailed    = errors.New("pipeline stage failed")
)

const (
	DefaultLinkWorkers   = 4
	DefaultAssessWorkers = 8
)

// Settings carries every tunable of the pipeline stages.
type Settings struct {
	SupportWeight       float64
	ContradictionWeight float64
	ReliabilityDamping  float64
	BiasPenalty         float64
	CircularPenalty     float64
	PlausibilityWeight  float64
	MaxPasses           int
	Epsilon             float64

	ReliableScore     float64
	UnreliableScore   float64
	SourceReliability float64

	SubjectThreshold           int
	DiversityConfidence        float64
	DiversityThreshold         int
	BalanceConfidenceThreshold float64

	SkipMirrorEdges bool
	LinkWorkers     int
	AssessWorkers   int
}

func DefaultSettings() Settings {
	return Settings{
		SupportWeight:              DefaultSupportWeight,
		ContradictionWeight:        DefaultContradictionWeight,
		ReliabilityDamping:         DefaultReliabilityDamping,
		BiasPenalty:                DefaultBiasPenalty,
		CircularPenalty:            DefaultCircularPenalty,
		PlausibilityWeight:         DefaultPlausibilityWeight,
		MaxPasses:                  DefaultMaxPasses,
		Epsilon:                    DefaultEpsilon,
		ReliableScore:              DefaultReliableScore,
		UnreliableScore:            DefaultUnreliableScore,
		SourceReliability:          DefaultSourceReliability,
		SubjectThreshold:           DefaultSubjectThreshold,
		DiversityConfidence:        DefaultDiversityConfidence,
		DiversityThreshold:         DefaultDiversityThreshold,
		BalanceConfidenceThreshold: DefaultBalanceConfidenceThreshold,
		LinkWorkers:                DefaultLinkWorkers,
		AssessWorkers:              DefaultAssessWorkers,
	}
}

// Pipeline drives Link -> Bias-Detect -> Reliability -> Cycle-Detect -> Propagate over
// a knowledge base. Stages never overlap; each one computes its changes first and
// commits them last, so a failing stage leaves the result of the previous one.
type Pipeline struct {
	Linker      *Linker
	Bias        *BiasDetector
	Reliability *ReliabilityCalculator
	Cycles      *CycleDetector
	Propagator  *Propagator

	validator     domain.PlausibilityValidator
	logger        *zap.Logger
	linkWorkers   int
	assessWorkers int
}

// NewPipeline wires the stages. validator may be nil, in which case no plausibility
// scores are attached and confidence is not scaled by plausibility.
func NewPipeline(settings Settings, lex *lexicon.Index, validator domain.PlausibilityValidator, logger *zap.Logger) *Pipeline {
	bias := NewBiasDetector(logger)
	bias.SubjectThreshold = settings.SubjectThreshold
	bias.DiversityConfidence = settings.DiversityConfidence
	bias.DiversityThreshold = settings.DiversityThreshold
	bias.BalanceConfidenceThreshold = settings.BalanceConfidenceThreshold

	rel := NewReliabilityCalculator(logger)
	rel.ReliableScore = settings.ReliableScore
	rel.UnreliableScore = settings.UnreliableScore
	rel.DefaultScore = settings.SourceReliability

	cycles := NewCycleDetector(logger)
	cycles.SkipMirrorEdges = settings.SkipMirrorEdges

	prop := NewPropagator(logger)
	prop.SupportWeight = settings.SupportWeight
	prop.ContradictionWeight = settings.ContradictionWeight
	prop.ReliabilityDamping = settings.ReliabilityDamping
	prop.BiasPenalty = settings.BiasPenalty
	prop.CircularPenalty = settings.CircularPenalty
	prop.PlausibilityWeight = settings.PlausibilityWeight
	prop.MaxPasses = settings.MaxPasses
	prop.Epsilon = settings.Epsilon

	linkWorkers := settings.LinkWorkers
	if linkWorkers <= 0 {
		linkWorkers = 1
	}
	assessWorkers := settings.AssessWorkers
	if assessWorkers <= 0 {
		assessWorkers = 1
	}

	return &Pipeline{
		Linker:        NewLinker(lex, logger),
		Bias:          bias,
		Reliability:   rel,
		Cycles:        cycles,
		Propagator:    prop,
		validator:     validator,
		logger:        logger,
		linkWorkers:   linkWorkers,
		assessWorkers: assessWorkers,
	}
}

// RefreshResult reports what the post-link stages did.
type RefreshResult struct {
	Reliability  ReliabilityTable
	Propagation  PropagationResult
	BiasFlagged  int
	CycleFlagged int
}

// Analyze runs the whole pipeline over a batch into a fresh knowledge base.
// Propositions repeated by id are ingested once.
func (p *Pipeline) Analyze(ctx context.Context, props []*domain.Proposition) (*domain.Analysis, error) {
	start := time.Now()
	props = dedupe(props)
	if len(props) == 0 {
		return nil, ErrNoPropositions
	}

	if err := p.assess(ctx, props); err != nil {
		return nil, fmt.Errorf("assess plausibility: %w", err)
	}

	kb, err := p.linkBatch(ctx, props)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}

	res, err := p.Refresh(ctx, kb)
	if err != nil {
		return nil, err
	}

	summary := domain.Summarize(kb)
	summary.PropagationPasses = res.Propagation.Passes
	summary.Converged = res.Propagation.Converged

	analysis := &domain.Analysis{
		ID:          uuid.New(),
		KB:          kb,
		Reliability: res.Reliability.Scores(),
		Summary:     summary,
		StartedAt:   start.UTC(),
		Duration:    time.Since(start),
	}

	p.logger.Info("analysis complete",
		zap.String("analysis_id", analysis.ID.String()),
		zap.Int("propositions", summary.Propositions),
		zap.Int("support_edges", summary.SupportEdges),
		zap.Int("contradiction_edges", summary.ContradictionEdges),
		zap.Duration("duration", analysis.Duration))
	return analysis, nil
}

// Ingest assesses and links a single proposition against kb, then inserts it.
// Derived state is not recomputed; call Refresh afterwards.
func (p *Pipeline) Ingest(ctx context.Context, kb domain.KnowledgeBase, prop *domain.Proposition) error {
	if prop == nil {
		return store.ErrNilValue
	}
	if _, err := kb.GetByID(prop.ID); err == nil {
		return store.ErrDuplicateID
	}
	if err := p.assess(ctx, []*domain.Proposition{prop}); err != nil {
		return err
	}
	p.Linker.Link(prop, kb)
	return kb.Add(prop)
}

// Extend ingests props into an existing analysis and refreshes it. The whole batch
// is rejected if any id is already present. Cancellation is honoured until linking
// starts; after that the batch is committed and refreshed regardless of ctx.
func (p *Pipeline) Extend(ctx context.Context, analysis *domain.Analysis, props []*domain.Proposition) (RefreshResult, error) {
	props = dedupe(props)
	if len(props) == 0 {
		return RefreshResult{}, ErrNoPropositions
	}

	analysis.Lock()
	defer analysis.Unlock()

	kb := analysis.KB
	for _, prop := range props {
		if _, err := kb.GetByID(prop.ID); err == nil {
			return RefreshResult{}, fmt.Errorf("proposition %s: %w", prop.ID, store.ErrDuplicateID)
		}
	}

	if err := p.assess(ctx, props); err != nil {
		return RefreshResult{}, fmt.Errorf("assess plausibility: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return RefreshResult{}, err
	}

	// Linking mutates the stored analysis; from here on the batch is committed and
	// the refresh must finish so derived state matches the new edges.
	commitCtx := context.WithoutCancel(ctx)

	var linked LinkResult
	for _, prop := range props {
		linked.add(p.Linker.Link(prop, kb))
		if err := kb.Add(prop); err != nil {
			return RefreshResult{}, err
		}
	}

	res, err := p.Refresh(commitCtx, kb)
	if err != nil {
		return res, err
	}

	analysis.Reliability = res.Reliability.Scores()
	analysis.Summary = domain.Summarize(kb)
	analysis.Summary.PropagationPasses = res.Propagation.Passes
	analysis.Summary.Converged = res.Propagation.Converged

	p.logger.Info("analysis extended",
		zap.String("analysis_id", analysis.ID.String()),
		zap.Int("added", len(props)),
		zap.Int("supports", linked.Supports),
		zap.Int("contradictions", linked.Contradictions))
	return res, nil
}

// Refresh clears derived state and reruns bias detection, reliability, cycle
// detection and propagation over kb. Flags are append-only within one refresh.
func (p *Pipeline) Refresh(ctx context.Context, kb domain.KnowledgeBase) (RefreshResult, error) {
	res := RefreshResult{Reliability: NewReliabilityTable(nil, p.Reliability.DefaultScore)}
	if kb == nil || kb.Len() == 0 {
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	for _, prop := range kb.All() {
		prop.Epistemic.ResetDerived()
	}

	err := p.runStage(ctx, "bias", func() error {
		findings := p.Bias.Detect(kb)
		if err := ctx.Err(); err != nil {
			return err
		}
		res.BiasFlagged = p.Bias.Apply(findings)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = p.runStage(ctx, "reliability", func() error {
		table := p.Reliability.Compute(kb)
		if err := ctx.Err(); err != nil {
			return err
		}
		p.Reliability.Apply(kb, table)
		res.Reliability = table
		return nil
	})
	if err != nil {
		return res, err
	}

	err = p.runStage(ctx, "cycles", func() error {
		ids := p.Cycles.Detect(kb)
		if err := ctx.Err(); err != nil {
			return err
		}
		res.CycleFlagged = p.Cycles.Apply(kb, ids)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = p.runStage(ctx, "propagate", func() error {
		prop, err := p.Propagator.Propagate(ctx, kb, res.Reliability)
		res.Propagation = prop
		return err
	})
	if err != nil {
		return res, err
	}

	p.logger.Info("knowledge base refreshed",
		zap.Int("propositions", kb.Len()),
		zap.Int("bias_flagged", res.BiasFlagged),
		zap.Int("cycle_flagged", res.CycleFlagged),
		zap.Int("sources", res.Reliability.Len()),
		zap.Int("passes", res.Propagation.Passes))
	return res, nil
}

func (p *Pipeline) runStage(ctx context.Context, name string, fn func() error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline stage panicked", zap.String("stage", name), zap.Any("panic", r))
			err = fmt.Errorf("%w: %s: %v", ErrStageFailed, name, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// assess runs the plausibility validator over props with bounded concurrency.
// Validator errors are logged and skipped; only cancellation fails the call.
func (p *Pipeline) assess(ctx context.Context, props []*domain.Proposition) error {
	if p.validator == nil {
		return nil
	}

	results := make([]*domain.Assessment, len(props))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.assessWorkers)
	for i, prop := range props {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := p.validator.Assess(gctx, prop)
			if err != nil {
				p.logger.Warn("plausibility check failed",
					zap.String("id", prop.ID.String()),
					zap.Error(err))
				return nil
			}
			results[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, prop := range props {
		prop.Epistemic.SetPlausibility(results[i])
	}
	return nil
}

// linkBatch links props as if each were linked against all earlier ones and then
// inserted. Cross-subject pairs never match, so subject partitions are linked
// concurrently, each in input order. The knowledge base is filled in input order.
func (p *Pipeline) linkBatch(ctx context.Context, props []*domain.Proposition) (*store.KnowledgeBase, error) {
	partitions := make(map[string][]*domain.Proposition)
	var subjects []string
	for _, prop := range props {
		if prop.SubjectLemma == "" {
			continue
		}
		if _, ok := partitions[prop.SubjectLemma]; !ok {
			subjects = append(subjects, prop.SubjectLemma)
		}
		partitions[prop.SubjectLemma] = append(partitions[prop.SubjectLemma], prop)
	}

	results := make([]LinkResult, len(subjects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.linkWorkers)
	for i, subject := range subjects {
		g.Go(func() error {
			local := store.NewKnowledgeBase()
			for _, prop := range partitions[subject] {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i].add(p.Linker.Link(prop, local))
				if err := local.Add(prop); err != nil {
					return fmt.Errorf("subject %q: %w", subject, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total LinkResult
	for _, r := range results {
		total.add(r)
	}

	kb := store.NewKnowledgeBase()
	for _, prop := range props {
		if err := kb.Add(prop); err != nil {
			return nil, err
		}
	}

	p.logger.Info("linking complete",
		zap.Int("propositions", len(props)),
		zap.Int("subjects", len(subjects)),
		zap.Int("supports", total.Supports),
		zap.Int("contradictions", total.Contradictions))
	return kb, nil
}

func dedupe(props []*domain.Proposition) []*domain.Proposition {
	seen := make(map[uuid.UUID]struct{}, len(props))
	out := make([]*domain.Proposition, 0, len(props))
	for _, prop := range props {
		if prop == nil {
			continue
		}
		if _, ok := seen[prop.ID]; ok {
			continue
		}
		seen[prop.ID] = struct{}{}
		out = append(out, prop)
	}
	return out
}
