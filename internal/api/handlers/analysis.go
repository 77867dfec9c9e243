package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/credence/internal/api/middleware"
	"github.com/Harshitk-cp/credence/internal/domain"
	"github.com/Harshitk-cp/credence/internal/service"
	"github.com/Harshitk-cp/credence/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxBatchSize caps the propositions accepted in one request.
const MaxBatchSize = 10000

type AnalysisHandler struct {
	pipeline *service.Pipeline
	store    *store.AnalysisStore
	logger   *zap.Logger
}

func NewAnalysisHandler(pipeline *service.Pipeline, analyses *store.AnalysisStore, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{pipeline: pipeline, store: analyses, logger: logger}
}

type propositionRequest struct {
	ID                *uuid.UUID `json:"id"`
	Subject           string     `json:"subject"`
	Relation          string     `json:"relation"`
	Value             string     `json:"value"`
	Negated           bool       `json:"negated"`
	TextSpan          string     `json:"text_span"`
	SourceText        string     `json:"source_text"`
	SourceID          string     `json:"source_id"`
	SourceType        string     `json:"source_type"`
	InitialConfidence *float64   `json:"initial_confidence"`
}

type batchRequest struct {
	Propositions []propositionRequest `json:"propositions"`
}

type propositionView struct {
	*domain.Proposition
	Band       domain.ConfidenceBand `json:"band"`
	BandReason string                `json:"band_reason"`
}

type analysisResponse struct {
	*domain.Analysis
	Propositions []propositionView `json:"propositions"`
}

type linkedResponse struct {
	ID           uuid.UUID         `json:"id"`
	Kind         domain.LinkKind   `json:"kind"`
	Propositions []propositionView `json:"propositions"`
	Count        int               `json:"count"`
}

const defaultInitialConfidence = 0.5

func decodeBatch(r *http.Request) ([]*domain.Proposition, string) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, "invalid request body"
	}
	if len(req.Propositions) == 0 {
		return nil, "propositions is required"
	}
	if len(req.Propositions) > MaxBatchSize {
		return nil, "too many propositions"
	}

	props := make([]*domain.Proposition, 0, len(req.Propositions))
	for _, p := range req.Propositions {
		if p.SourceID == "" {
			return nil, "source_id is required"
		}
		conf := defaultInitialConfidence
		if p.InitialConfidence != nil {
			conf = *p.InitialConfidence
		}
		prop := domain.NewProposition(p.Subject, p.Relation, p.Value, p.Negated, p.SourceID, p.SourceType, conf)
		if p.ID != nil {
			if *p.ID == uuid.Nil {
				return nil, "id must not be the nil uuid"
			}
			prop.ID = *p.ID
		}
		prop.TextSpan = p.TextSpan
		prop.SourceText = p.SourceText
		props = append(props, prop)
	}
	return props, ""
}

func view(p *domain.Proposition) propositionView {
	c := p.Epistemic.ComputedConfidence
	return propositionView{
		Proposition: p,
		Band:        domain.ComputeBand(c),
		BandReason:  domain.BandReason(c),
	}
}

func views(props []*domain.Proposition) []propositionView {
	out := make([]propositionView, 0, len(props))
	for _, p := range props {
		out = append(out, view(p))
	}
	return out
}

// respondAnalysis writes the analysis while holding its read lock.
func respondAnalysis(w http.ResponseWriter, status int, a *domain.Analysis) {
	a.RLock()
	defer a.RUnlock()
	writeJSON(w, status, analysisResponse{Analysis: a, Propositions: views(a.KB.All())})
}

// clientField identifies the API key behind r; empty when auth is disabled.
func clientField(r *http.Request) zap.Field {
	return zap.String("client", middleware.ClientFromContext(r.Context()))
}

func pipelineStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNoPropositions):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "analysis cancelled"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

func (h *AnalysisHandler) Create(w http.ResponseWriter, r *http.Request) {
	props, msg := decodeBatch(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	analysis, err := h.pipeline.Analyze(r.Context(), props)
	if err != nil {
		status, msg := pipelineStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("analysis failed", clientField(r), zap.Error(err))
		}
		writeError(w, status, msg)
		return
	}

	if err := h.store.Put(analysis); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store analysis")
		return
	}

	h.logger.Info("analysis created",
		zap.String("analysis_id", analysis.ID.String()),
		clientField(r),
		zap.Int("propositions", len(props)))
	respondAnalysis(w, http.StatusCreated, analysis)
}

func (h *AnalysisHandler) Extend(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.lookup(w, r)
	if !ok {
		return
	}

	props, msg := decodeBatch(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.pipeline.Extend(r.Context(), analysis, props); err != nil {
		status, msg := pipelineStatus(err)
		switch {
		case status >= http.StatusInternalServerError:
			h.logger.Error("extend analysis failed", zap.String("analysis_id", analysis.ID.String()), clientField(r), zap.Error(err))
		case status == http.StatusConflict:
			h.logger.Warn("extend analysis rejected", zap.String("analysis_id", analysis.ID.String()), clientField(r), zap.Error(err))
		}
		writeError(w, status, msg)
		return
	}

	respondAnalysis(w, http.StatusOK, analysis)
}

func (h *AnalysisHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondAnalysis(w, http.StatusOK, analysis)
}

func (h *AnalysisHandler) GetProposition(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.lookup(w, r)
	if !ok {
		return
	}
	pid, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposition id")
		return
	}

	analysis.RLock()
	defer analysis.RUnlock()

	prop, err := analysis.KB.GetByID(pid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "proposition not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get proposition")
		return
	}

	writeJSON(w, http.StatusOK, view(prop))
}

func (h *AnalysisHandler) GetLinked(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.lookup(w, r)
	if !ok {
		return
	}
	pid, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposition id")
		return
	}

	kind := domain.LinkAll
	if k := r.URL.Query().Get("kind"); k != "" {
		if !domain.ValidLinkKind(k) {
			writeError(w, http.StatusBadRequest, "kind must be one of supports, contradicts, all")
			return
		}
		kind = domain.LinkKind(k)
	}

	analysis.RLock()
	defer analysis.RUnlock()

	linked, err := analysis.KB.GetLinked(pid, kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "proposition not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get linked propositions")
		return
	}

	writeJSON(w, http.StatusOK, linkedResponse{
		ID:           pid,
		Kind:         kind,
		Propositions: views(linked),
		Count:        len(linked),
	})
}

func (h *AnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	analysis, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.store.Delete(analysis.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AnalysisHandler) lookup(w http.ResponseWriter, r *http.Request) (*domain.Analysis, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return nil, false
	}

	analysis, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "failed to get analysis")
		return nil, false
	}
	return analysis, true
}
