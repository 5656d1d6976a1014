package models

import (
	"encoding/json"
	"time"
)

// HistoryRecord is one saved analysis shown on the dashboard
type HistoryRecord struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id,omitempty" badgerhold:"index"`
	PropertyAddress string          `json:"property_address"`
	ConfidenceScore *float64        `json:"confidenceScore"`
	CreatedAt       time.Time       `json:"created_at"`
	ResultURL       string          `json:"resultUrl"`
	GeminiAnalysis  json.RawMessage `json:"geminiAnalysis,omitempty"`
	PropertyInfo    json.RawMessage `json:"propertyInfo,omitempty"`
}
