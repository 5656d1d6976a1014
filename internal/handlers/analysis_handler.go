package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/ternarybob/proppulse/internal/services/confidence"
)

const analysisFailed = "Failed to analyze data"

// AnalysisHandler serves the model-backed confidence assessment
type AnalysisHandler struct {
	analyzer ConfidenceAnalyzer
	logger   arbor.ILogger
}

func NewAnalysisHandler(analyzer ConfidenceAnalyzer, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// GeminiAnalysisHandler handles POST /gemini-analysis
func (h *AnalysisHandler) GeminiAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req models.AnalysisRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteErrorDetails(w, http.StatusBadRequest, analysisFailed, err.Error())
		return
	}

	assessment, err := h.analyzer.Analyze(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("Confidence analysis failed")
		details := err.Error()
		if errors.Is(err, confidence.ErrInvalidResponse) {
			details = confidence.ErrInvalidResponse.Error()
		}
		WriteErrorDetails(w, http.StatusInternalServerError, analysisFailed, details)
		return
	}

	WriteJSON(w, http.StatusOK, assessment)
}
