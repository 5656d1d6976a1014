package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/ternarybob/proppulse/internal/services/evaluation"
	"github.com/ternarybob/proppulse/internal/services/propertydata"
	"github.com/ternarybob/proppulse/internal/services/underwriting"
)

// EvaluateRequest is the body of POST /api/evaluate. Metrics come from the
// first of metrics, report or location that is present; thresholds from the
// first of criteria, template or labels, else the standard defaults.
type EvaluateRequest struct {
	Metrics  *models.PropertyMetrics    `json:"metrics,omitempty"`
	Report   *models.PropertyReport     `json:"report,omitempty"`
	Location string                     `json:"location,omitempty"`
	Criteria json.RawMessage            `json:"criteria,omitempty"`
	Template string                     `json:"template,omitempty"`
	Labels   []string                   `json:"labels,omitempty"`
}

var errUnknownTemplate = errors.New("unknown buy box template")

var validate = validator.New()

// EvaluateResponse pairs the evaluation with the inputs it was computed from
type EvaluateResponse struct {
	Metrics    models.PropertyMetrics    `json:"metrics"`
	Criteria   models.CriteriaThresholds `json:"criteria"`
	Evaluation models.DealEvaluation     `json:"evaluation"`
}

// EvaluationHandler serves the criteria scorer and buy-box templates
type EvaluationHandler struct {
	lookup        PropertyLookup
	recorder      DealRecorder
	passThreshold float64
	logger        arbor.ILogger
}

func NewEvaluationHandler(lookup PropertyLookup, recorder DealRecorder, passThreshold float64, logger arbor.ILogger) *EvaluationHandler {
	if passThreshold <= 0 {
		passThreshold = models.PassThreshold
	}
	return &EvaluationHandler{
		lookup:        lookup,
		recorder:      recorder,
		passThreshold: passThreshold,
		logger:        logger,
	}
}

// EvaluateHandler handles POST /api/evaluate
func (h *EvaluationHandler) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req EvaluateRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteErrorDetails(w, http.StatusBadRequest, "Invalid evaluation request", err.Error())
		return
	}

	criteria, err := h.resolveCriteria(&req)
	if errors.Is(err, errUnknownTemplate) {
		WriteErrorDetails(w, http.StatusBadRequest, "Unknown buy box template", req.Template)
		return
	}
	if err != nil {
		WriteErrorDetails(w, http.StatusBadRequest, "Invalid criteria", err.Error())
		return
	}

	var metrics models.PropertyMetrics
	switch {
	case req.Metrics != nil:
		metrics = *req.Metrics
	case req.Report != nil:
		metrics = underwriting.MetricsFromReport(*req.Report)
	case strings.TrimSpace(req.Location) != "":
		m, err := h.lookup.LookupMetrics(r.Context(), req.Location)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, propertydata.ErrUpstreamUnavailable) {
				status = http.StatusBadGateway
			}
			h.logger.Error().Err(err).Str("location", req.Location).Msg("Property lookup for evaluation failed")
			WriteErrorDetails(w, status, "Failed to fetch property data", err.Error())
			return
		}
		metrics = m
	default:
		WriteErrorDetails(w, http.StatusBadRequest, "Metrics are required", "Provide metrics, report or location")
		return
	}

	result := evaluation.Evaluate(metrics, criteria, h.passThreshold)
	if h.recorder != nil {
		h.recorder.RecordDeal(result.OverallScore, result.DealPasses)
	}

	h.logger.Debug().
		Float64("overall_score", result.OverallScore).
		Bool("deal_passes", result.DealPasses).
		Int("passed_criteria", result.PassedCriteria).
		Msg("Deal evaluated")

	WriteJSON(w, http.StatusOK, EvaluateResponse{
		Metrics:    metrics,
		Criteria:   criteria,
		Evaluation: result,
	})
}

// resolveCriteria picks thresholds from criteria, template or labels. Fields
// an explicit criteria object leaves out keep their standard defaults.
func (h *EvaluationHandler) resolveCriteria(req *EvaluateRequest) (models.CriteriaThresholds, error) {
	switch {
	case len(req.Criteria) > 0 && !bytes.Equal(bytes.TrimSpace(req.Criteria), []byte("null")):
		criteria := evaluation.DefaultCriteria()
		if err := json.Unmarshal(req.Criteria, &criteria); err != nil {
			return criteria, fmt.Errorf("invalid criteria: %w", err)
		}
		if err := validate.Struct(criteria); err != nil {
			return criteria, fmt.Errorf("invalid criteria: %w", err)
		}
		return criteria, nil
	case req.Template != "":
		t, ok := evaluation.Template(req.Template)
		if !ok {
			return t.Thresholds, errUnknownTemplate
		}
		return t.Thresholds, nil
	case len(req.Labels) > 0:
		return evaluation.ParseCriteriaLabels(req.Labels), nil
	default:
		return evaluation.DefaultCriteria(), nil
	}
}

// TemplatesHandler handles GET /api/buybox/templates
func (h *EvaluationHandler) TemplatesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"templates": evaluation.Templates(),
		"default":   evaluation.StandardTemplate,
	})
}
