package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/ternarybob/proppulse/internal/services/confidence"
	"github.com/ternarybob/proppulse/internal/services/evaluation"
	"github.com/ternarybob/proppulse/internal/services/propertydata"
	"github.com/ternarybob/proppulse/internal/services/underwriting"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type fakeLookup struct {
	lookupFn  func(ctx context.Context, location string) (*models.PropertyReport, error)
	metricsFn func(ctx context.Context, location string) (models.PropertyMetrics, error)
}

func (f *fakeLookup) Lookup(ctx context.Context, location string) (*models.PropertyReport, error) {
	return f.lookupFn(ctx, location)
}

func (f *fakeLookup) LookupMetrics(ctx context.Context, location string) (models.PropertyMetrics, error) {
	return f.metricsFn(ctx, location)
}

type fakeAnalyzer struct {
	analyzeFn func(ctx context.Context, req *models.AnalysisRequest) (*models.ConfidenceAssessment, error)
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.ConfidenceAssessment, error) {
	return f.analyzeFn(ctx, req)
}

type fakeHistory struct {
	appendFn func(ctx context.Context, record *models.HistoryRecord) error
	listFn   func(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (f *fakeHistory) Append(ctx context.Context, record *models.HistoryRecord) error {
	return f.appendFn(ctx, record)
}

func (f *fakeHistory) List(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	return f.listFn(ctx, userID, limit)
}

func (f *fakeHistory) Delete(ctx context.Context, userID, id string) error {
	return f.deleteFn(ctx, userID, id)
}

func fallbackLookup() *fakeLookup {
	return &fakeLookup{
		lookupFn: func(ctx context.Context, location string) (*models.PropertyReport, error) {
			report := underwriting.NewReport(underwriting.Fallback(location, testNow))
			return &report, nil
		},
		metricsFn: func(ctx context.Context, location string) (models.PropertyMetrics, error) {
			return underwriting.Fallback(location, testNow), nil
		},
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPropertyDataHandler(t *testing.T) {
	h := NewPropertyHandler(fallbackLookup(), arbor.NewLogger())

	t.Run("missing location", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.PropertyDataHandler(rec, httptest.NewRequest(http.MethodGet, "/property-data", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Location parameter is required", body["error"])
		assert.Equal(t, "Please provide a location parameter", body["details"])
	})

	t.Run("report", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.PropertyDataHandler(rec, httptest.NewRequest(http.MethodGet, "/property-data?location=Los+Angeles%2C+CA", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "$2,268,465", body["propertyValue"])
		assert.Equal(t, "6.5%", body["capRate"])
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.PropertyDataHandler(rec, httptest.NewRequest(http.MethodPost, "/property-data?location=x", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestPropertyDataHandler_UpstreamUnavailable(t *testing.T) {
	lookup := &fakeLookup{lookupFn: func(ctx context.Context, location string) (*models.PropertyReport, error) {
		return nil, fmt.Errorf("%w: timeout", propertydata.ErrUpstreamUnavailable)
	}}
	h := NewPropertyHandler(lookup, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.PropertyDataHandler(rec, httptest.NewRequest(http.MethodGet, "/property-data?location=x", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	h.TestPropertyHandler(rec, httptest.NewRequest(http.MethodGet, "/test-property", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Property data API test failed", body["message"])
}

func TestTestPropertyHandler(t *testing.T) {
	h := NewPropertyHandler(fallbackLookup(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.TestPropertyHandler(rec, httptest.NewRequest(http.MethodGet, "/test-property", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Property data API is working correctly", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "6.5%", data["capRate"])
	assert.Equal(t, "9.0%", data["cashOnCash"])
	assert.Equal(t, "16.5%", data["irr"])
}

func TestGeminiAnalysisHandler(t *testing.T) {
	score := 65.0

	tests := []struct {
		name        string
		body        string
		analyzeErr  error
		wantStatus  int
		wantDetails string
	}{
		{name: "success", body: `{"propertyInfo": {"address": "1 Main St"}, "userCriteria": {"minCoCReturn": 8}}`, wantStatus: http.StatusOK},
		{name: "invalid model response", body: `{}`, analyzeErr: fmt.Errorf("%w: unexpected token", confidence.ErrInvalidResponse), wantStatus: http.StatusInternalServerError, wantDetails: "Invalid response from Gemini API"},
		{name: "model failure", body: `{}`, analyzeErr: errors.New("Gemini API failed"), wantStatus: http.StatusInternalServerError, wantDetails: "Gemini API failed"},
		{name: "malformed body", body: `{`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.AnalysisRequest
			analyzer := &fakeAnalyzer{analyzeFn: func(ctx context.Context, req *models.AnalysisRequest) (*models.ConfidenceAssessment, error) {
				got = req
				if tt.analyzeErr != nil {
					return nil, tt.analyzeErr
				}
				return &models.ConfidenceAssessment{ConfidenceScore: &score, Summary: "Deal FAILS with 65% confidence."}, nil
			}}
			h := NewAnalysisHandler(analyzer, arbor.NewLogger())

			rec := httptest.NewRecorder()
			h.GeminiAnalysisHandler(rec, httptest.NewRequest(http.MethodPost, "/gemini-analysis", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "Deal FAILS with 65% confidence.", body["summary"])
				assert.Equal(t, models.FlexString("8"), got.UserCriteria.MinCoCReturn)
				return
			}
			assert.Equal(t, "Failed to analyze data", body["error"])
			if tt.wantDetails != "" {
				assert.Equal(t, tt.wantDetails, body["details"])
			}
		})
	}
}

func TestEvaluateHandler(t *testing.T) {
	h := NewEvaluationHandler(fallbackLookup(), nil, 0, arbor.NewLogger())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantScore  float64
		wantPasses bool
	}{
		{
			name:       "explicit metrics and defaults",
			body:       `{"metrics": {"capRate": 6.6, "cashOnCash": 8.4, "irr": 14.7, "noi": 187200, "debtService": 139698, "buildYear": 1998, "propertyValue": 2850000, "marketInsights": {"occupancyRate": 96}}}`,
			wantStatus: http.StatusOK,
			wantScore:  100,
			wantPasses: true,
		},
		{
			name:       "report form",
			body:       `{"report": {"capRate": "6.6%", "cashOnCash": "8.4%", "irr": "14.7%", "noi": "$187,200", "debtService": "$139,698", "buildYear": "1998", "propertyValue": "$16,000,000", "marketInsights": {"occupancyRate": "96%"}}}`,
			wantStatus: http.StatusOK,
			wantScore:  95,
			wantPasses: true,
		},
		{
			name:       "unknown template",
			body:       `{"location": "Los Angeles, CA", "template": "Moonshot"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no metrics",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "location lookup",
			body:       `{"location": "Los Angeles, CA", "template": "PropPulse Standard"}`,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.EvaluateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewBufferString(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK || tt.wantScore == 0 {
				return
			}

			var resp EvaluateResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantScore, resp.Evaluation.OverallScore)
			assert.Equal(t, tt.wantPasses, resp.Evaluation.DealPasses)
		})
	}
}

func TestEvaluateHandler_PartialCriteria(t *testing.T) {
	h := NewEvaluationHandler(fallbackLookup(), nil, 0, arbor.NewLogger())
	metrics := `{"capRate": 6.6, "cashOnCash": 8.4, "irr": 14.7, "noi": 187200, "debtService": 139698, "buildYear": 1998, "propertyValue": 2850000, "marketInsights": {"occupancyRate": 96}}`

	rec := httptest.NewRecorder()
	body := `{"metrics": ` + metrics + `, "criteria": {"minCapRate": 6.0}}`
	h.EvaluateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	want := evaluation.DefaultCriteria()
	want.MinCapRate = 6.0
	assert.Equal(t, want, resp.Criteria)
	assert.Equal(t, 100.0, resp.Evaluation.OverallScore)
	assert.Empty(t, resp.Evaluation.Recommendations)

	tests := []struct {
		name     string
		criteria string
	}{
		{name: "zero max price", criteria: `{"maxPrice": 0}`},
		{name: "negative threshold", criteria: `{"minIRR": -1}`},
		{name: "occupancy above 100", criteria: `{"minOccupancy": 120}`},
		{name: "wrong type", criteria: `{"minCapRate": "high"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			body := `{"metrics": ` + metrics + `, "criteria": ` + tt.criteria + `}`
			h.EvaluateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/evaluate", bytes.NewBufferString(body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid criteria")
		})
	}
}

func TestTemplatesHandler(t *testing.T) {
	h := NewEvaluationHandler(nil, nil, 0, arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.TemplatesHandler(rec, httptest.NewRequest(http.MethodGet, "/api/buybox/templates", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "PropPulse Standard", body["default"])
	assert.Len(t, body["templates"], 4)
}

func TestHistoryHandlers(t *testing.T) {
	var appended *models.HistoryRecord
	history := &fakeHistory{
		appendFn: func(ctx context.Context, record *models.HistoryRecord) error {
			record.ID = "ana_1"
			appended = record
			return nil
		},
		listFn: func(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
			assert.Equal(t, "u1", userID)
			assert.Equal(t, 5, limit)
			return nil, nil
		},
		deleteFn: func(ctx context.Context, userID, id string) error {
			if id == "missing" {
				return interfaces.ErrHistoryNotFound
			}
			return nil
		},
	}
	h := NewHistoryHandler(history, arbor.NewLogger())

	t.Run("list empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListHistoryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/history?user_id=u1&limit=5", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("create", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := `{"id": "client-id", "property_address": "1 Main St", "confidenceScore": 87, "resultUrl": "/results"}`
		h.CreateHistoryHandler(rec, httptest.NewRequest(http.MethodPost, "/api/history", bytes.NewBufferString(body)))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "ana_1", appended.ID)
		assert.Equal(t, 87.0, *appended.ConfidenceScore)
	})

	t.Run("create requires address", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.CreateHistoryHandler(rec, httptest.NewRequest(http.MethodPost, "/api/history", bytes.NewBufferString(`{}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.DeleteHistoryHandler(rec, httptest.NewRequest(http.MethodDelete, "/api/history/ana_1?user_id=u1", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		h.DeleteHistoryHandler(rec, httptest.NewRequest(http.MethodDelete, "/api/history/missing", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestValidateUploadHandler(t *testing.T) {
	h := NewUploadHandler(arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.ValidateUploadHandler(rec, httptest.NewRequest(http.MethodPost, "/api/uploads/validate",
		bytes.NewBufferString(`{"name": "t12.pdf", "type": "application/pdf", "size": 2048}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["isValid"])

	rec = httptest.NewRecorder()
	h.ValidateUploadHandler(rec, httptest.NewRequest(http.MethodPost, "/api/uploads/validate",
		bytes.NewBufferString(`{"name": "photo.png", "type": "image/png", "size": 2048}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please upload a PDF, Excel, or CSV file.", decodeBody(t, rec)["error"])
}

func TestAPIHandler(t *testing.T) {
	h := NewAPIHandler(common.NewDefaultConfig(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	h.HealthHandler(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = httptest.NewRecorder()
	h.NotFoundHandler(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/nope", decodeBody(t, rec)["path"])
}
