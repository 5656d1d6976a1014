package confidence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/metrics"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/ternarybob/proppulse/internal/services/evaluation"
)

// HistoryAppender records finished analyses without blocking the caller
type HistoryAppender interface {
	AppendAsync(record *models.HistoryRecord)
}

// Service runs the model-backed confidence assessment
type Service struct {
	llm           interfaces.LLMService
	history       HistoryAppender
	logger        arbor.ILogger
	metrics       *metrics.Metrics
	passThreshold float64
}

// NewService creates the assessment service. history may be nil.
func NewService(llm interfaces.LLMService, history HistoryAppender, passThreshold float64, logger arbor.ILogger, m *metrics.Metrics) *Service {
	if passThreshold <= 0 {
		passThreshold = models.PassThreshold
	}
	return &Service{
		llm:           llm,
		history:       history,
		logger:        logger,
		metrics:       m,
		passThreshold: passThreshold,
	}
}

// Analyze prompts the model, validates its output and recomputes the verdict.
// Model failures are returned unchanged; unusable output is wrapped in
// ErrInvalidResponse.
func (s *Service) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.ConfidenceAssessment, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("no language model configured")
	}

	if !req.UserCriteria.HasTargets() && len(req.CriteriaLabels) > 0 {
		req.UserCriteria = evaluation.ParseUserCriteria(
			req.CriteriaLabels,
			req.UserCriteria.InvestmentAmount.String(),
			req.UserCriteria.Timeframe.String(),
		)
	}

	prompt := BuildPrompt(req)

	start := time.Now()
	raw, err := s.llm.Generate(ctx, prompt)
	s.metrics.ObserveLLM(s.llm.Provider(), err, time.Since(start))
	if err != nil {
		return nil, err
	}

	assessment, err := ParseAssessment(raw)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.llm.Provider()).
			Int("response_length", len(raw)).
			Msg("Model returned an unusable assessment")
		return nil, err
	}

	Enforce(assessment, req.UserCriteria, s.passThreshold)
	s.metrics.RecordConfidence(*assessment.ConfidenceScore, assessment.DealPasses)

	s.logger.Info().
		Str("provider", s.llm.Provider()).
		Float64("confidence_score", *assessment.ConfidenceScore).
		Bool("deal_passes", assessment.DealPasses).
		Dur("duration", time.Since(start)).
		Msg("Confidence assessment completed")

	s.recordHistory(req, assessment)

	return assessment, nil
}

func (s *Service) recordHistory(req *models.AnalysisRequest, assessment *models.ConfidenceAssessment) {
	if s.history == nil {
		return
	}

	address := propertyAddress(req.PropertyInfo)
	if address == "" && req.UserID == "" {
		return
	}

	analysis, err := json.Marshal(assessment)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode assessment for history")
		return
	}

	var info json.RawMessage
	if req.PropertyInfo != nil {
		if info, err = json.Marshal(req.PropertyInfo); err != nil {
			info = nil
		}
	}

	score := *assessment.ConfidenceScore
	s.history.AppendAsync(&models.HistoryRecord{
		UserID:          req.UserID,
		PropertyAddress: address,
		ConfidenceScore: &score,
		ResultURL:       req.ResultURL,
		GeminiAnalysis:  analysis,
		PropertyInfo:    info,
	})
}

func propertyAddress(info map[string]interface{}) string {
	for _, key := range []string{"address", "location"} {
		if v, ok := info[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
