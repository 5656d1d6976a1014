package handlers

import (
	"context"

	"github.com/ternarybob/proppulse/internal/models"
)

// PropertyLookup resolves a location into metrics
type PropertyLookup interface {
	Lookup(ctx context.Context, location string) (*models.PropertyReport, error)
	LookupMetrics(ctx context.Context, location string) (models.PropertyMetrics, error)
}

// ConfidenceAnalyzer runs the model-backed assessment
type ConfidenceAnalyzer interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.ConfidenceAssessment, error)
}

// HistoryManager lists, appends and deletes saved analyses
type HistoryManager interface {
	Append(ctx context.Context, record *models.HistoryRecord) error
	List(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error)
	Delete(ctx context.Context, userID, id string) error
}

// DealRecorder receives computed evaluation outcomes
type DealRecorder interface {
	RecordDeal(score float64, passes bool)
}
