package confidence

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/models"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "uppercase fence", input: "  ```JSON\n{\"a\":1}```  ", want: `{"a":1}`},
		{name: "no fence", input: " {\"a\":1} ", want: `{"a":1}`},
		{name: "unterminated", input: "```json\n{\"a\":1}", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}

func TestParseAssessment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid fenced", input: "```json\n{\"confidenceScore\": 87, \"dealPasses\": true}\n```"},
		{name: "not json", input: "I cannot analyse this property.", wantErr: true},
		{name: "missing score", input: `{"dealPasses": true}`, wantErr: true},
		{name: "string score", input: `{"confidenceScore": "high"}`, wantErr: true},
		{name: "score out of range", input: `{"confidenceScore": 140}`, wantErr: true},
		{name: "factor score out of range", input: `{"confidenceScore": 80, "confidenceFactors": {"capRate": {"value": "6%", "score": 101, "weight": 20}}}`},
		{name: "quoted factor score", input: `{"confidenceScore": 65, "confidenceFactors": {"cocReturn": {"value": "8.4%", "score": "100", "weight": 25}}}`},
		{name: "zero score", input: `{"confidenceScore": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAssessment(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, a.ConfidenceScore)
		})
	}
}

func TestParseAssessment_LenientFactors(t *testing.T) {
	a, err := ParseAssessment(`{"confidenceScore": 65, "confidenceFactors": {
		"cocReturn": {"value": "8.4%", "score": "100", "weight": "25%"},
		"capRate": {"value": 6.2, "score": "strong", "weight": 20}}}`)
	require.NoError(t, err)

	assert.Equal(t, models.FlexFloat(100), a.ConfidenceFactors.CocReturn.Score)
	assert.Equal(t, models.FlexFloat(25), a.ConfidenceFactors.CocReturn.Weight)
	assert.Equal(t, models.FlexString("6.2"), a.ConfidenceFactors.CapRate.Value)
	assert.Equal(t, models.FlexFloat(0), a.ConfidenceFactors.CapRate.Score)
}

func TestParseAssessment_KeepsUnknownKeys(t *testing.T) {
	a, err := ParseAssessment(`{"confidenceScore": 87, "dealPasses": true, "exitStrategy": {"years": 7}, "notes": "refinance in year 3"}`)
	require.NoError(t, err)
	require.Len(t, a.Extra, 2)

	Enforce(a, models.UserCriteria{}, models.PassThreshold)

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, map[string]interface{}{"years": 7.0}, out["exitStrategy"])
	assert.Equal(t, "refinance in year 3", out["notes"])
	assert.Equal(t, 87.0, out["confidenceScore"])
	assert.Equal(t, "Deal PASSES with 87% confidence.", out["summary"])
}

func TestEnforce(t *testing.T) {
	tests := []struct {
		name        string
		score       float64
		modelPasses bool
		wantPasses  bool
		wantSummary string
	}{
		{name: "model overclaims", score: 65, modelPasses: true, wantPasses: false, wantSummary: "Deal FAILS with 65% confidence."},
		{name: "model underclaims", score: 92, modelPasses: false, wantPasses: true, wantSummary: "Deal PASSES with 92% confidence."},
		{name: "boundary passes", score: 80, modelPasses: false, wantPasses: true, wantSummary: "Deal PASSES with 80% confidence."},
		{name: "fractional", score: 79.5, modelPasses: true, wantPasses: false, wantSummary: "Deal FAILS with 79.5% confidence."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := tt.score
			a := &models.ConfidenceAssessment{ConfidenceScore: &score, DealPasses: tt.modelPasses, Summary: "model text"}

			Enforce(a, models.UserCriteria{}, models.PassThreshold)

			assert.Equal(t, tt.wantPasses, a.DealPasses)
			assert.Equal(t, tt.wantSummary, a.Summary)
		})
	}
}

func TestEnforce_TargetOverride(t *testing.T) {
	score := 87.0
	a := &models.ConfidenceAssessment{
		ConfidenceScore: &score,
		ConfidenceFactors: &models.ConfidenceFactors{
			CocReturn: &models.ConfidenceFactor{Value: "8.4%", Target: "7.0%", Score: 100, Weight: 25},
			CapRate:   &models.ConfidenceFactor{Value: "6.2%", Target: "5.5-7.5%", Score: 100, Weight: 20},
		},
	}

	Enforce(a, models.UserCriteria{MinCoCReturn: "9%", MinDSCR: "1.3"}, models.PassThreshold)

	assert.Equal(t, models.FlexString("9%"), a.ConfidenceFactors.CocReturn.Target)
	assert.Equal(t, models.FlexString("5.5-7.5%"), a.ConfidenceFactors.CapRate.Target)
	assert.Nil(t, a.ConfidenceFactors.DSCR)
}

func TestBuildPrompt(t *testing.T) {
	req := &models.AnalysisRequest{
		PropertyInfo: map[string]interface{}{"address": "123 Main St"},
		T12Data:      map[string]interface{}{"grossRent": 312000},
		UserCriteria: models.UserCriteria{MinCoCReturn: "8%", HoldPeriod: "7 years"},
	}

	prompt := BuildPrompt(req)

	assert.Contains(t, prompt, `"address": "123 Main St"`)
	assert.Contains(t, prompt, `"grossRent": 312000`)
	assert.Contains(t, prompt, "Min CoC Return: Target 8% (weight: 25%)")
	assert.Contains(t, prompt, "Target Hold Period: 7 years (weight: 10%)")
	assert.Contains(t, prompt, "DSCR: Target not specified (weight: 15%)")
	assert.Contains(t, prompt, "Property Condition: not specified (weight: 5%)")
	assert.Contains(t, prompt, "RENT ROLL DATA:\nnull")
	assert.Contains(t, prompt, `"confidenceScore": 87`)
	assert.NotContains(t, prompt, "%!")
}

type fakeLLM struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return f.generateFn(ctx, prompt)
}
func (f *fakeLLM) Provider() string { return "fake" }
func (f *fakeLLM) Model() string    { return "fake-1" }
func (f *fakeLLM) Close() error     { return nil }

type recordingHistory struct {
	mu      sync.Mutex
	records []*models.HistoryRecord
}

func (r *recordingHistory) AppendAsync(record *models.HistoryRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

func TestService_Analyze(t *testing.T) {
	llm := &fakeLLM{generateFn: func(ctx context.Context, prompt string) (string, error) {
		return "```json\n{\"confidenceScore\": 65, \"dealPasses\": true, \"summary\": \"Great deal\"}\n```", nil
	}}
	history := &recordingHistory{}
	svc := NewService(llm, history, 0, arbor.NewLogger(), nil)

	req := &models.AnalysisRequest{
		PropertyInfo: map[string]interface{}{"address": "123 Main St"},
		UserID:       "user-1",
		ResultURL:    "/results?address=123+Main+St",
	}

	a, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, a.DealPasses)
	assert.Contains(t, a.Summary, "FAILS")

	require.Len(t, history.records, 1)
	rec := history.records[0]
	assert.Equal(t, "123 Main St", rec.PropertyAddress)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, 65.0, *rec.ConfidenceScore)

	var stored models.ConfidenceAssessment
	require.NoError(t, json.Unmarshal(rec.GeminiAnalysis, &stored))
	assert.False(t, stored.DealPasses)
}

func TestService_Analyze_Errors(t *testing.T) {
	upstream := errors.New("quota exceeded")

	tests := []struct {
		name    string
		output  string
		err     error
		wantErr error
	}{
		{name: "model error", err: upstream, wantErr: upstream},
		{name: "unparseable output", output: "Sorry, I can't help.", wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{generateFn: func(ctx context.Context, prompt string) (string, error) {
				return tt.output, tt.err
			}}
			history := &recordingHistory{}
			svc := NewService(llm, history, 0, arbor.NewLogger(), nil)

			_, err := svc.Analyze(context.Background(), &models.AnalysisRequest{UserID: "u"})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, history.records)
		})
	}
}

func TestService_Analyze_NoHistoryWithoutIdentity(t *testing.T) {
	llm := &fakeLLM{generateFn: func(ctx context.Context, prompt string) (string, error) {
		return `{"confidenceScore": 90}`, nil
	}}
	history := &recordingHistory{}
	svc := NewService(llm, history, 0, arbor.NewLogger(), nil)

	a, err := svc.Analyze(context.Background(), &models.AnalysisRequest{})
	require.NoError(t, err)
	assert.True(t, a.DealPasses)
	assert.Empty(t, history.records)
}

func TestService_Analyze_CriteriaFromLabels(t *testing.T) {
	var prompt string
	llm := &fakeLLM{generateFn: func(ctx context.Context, p string) (string, error) {
		prompt = p
		return `{"confidenceScore": 84, "confidenceFactors": {"cocReturn": {"value": "8.4%", "target": "10%", "score": 90, "weight": 25}}}`, nil
	}}
	svc := NewService(llm, nil, 0, arbor.NewLogger(), nil)

	req := &models.AnalysisRequest{
		UserCriteria:   models.UserCriteria{InvestmentAmount: "2500000"},
		CriteriaLabels: []string{"Cap Rate > 6.5%", "Cash-on-Cash > 8%", "DSCR > 1.3"},
	}

	a, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Min CoC Return: Target 8")
	assert.Contains(t, prompt, "DSCR: Target 1.3")
	assert.Equal(t, models.FlexString("8"), a.ConfidenceFactors.CocReturn.Target)
	assert.Equal(t, models.FlexString("2500000"), req.UserCriteria.InvestmentAmount)
}

func TestService_Analyze_ExplicitCriteriaWinOverLabels(t *testing.T) {
	var prompt string
	llm := &fakeLLM{generateFn: func(ctx context.Context, p string) (string, error) {
		prompt = p
		return `{"confidenceScore": 70}`, nil
	}}
	svc := NewService(llm, nil, 0, arbor.NewLogger(), nil)

	_, err := svc.Analyze(context.Background(), &models.AnalysisRequest{
		UserCriteria:   models.UserCriteria{MinCoCReturn: "9"},
		CriteriaLabels: []string{"Cash-on-Cash > 8%"},
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Min CoC Return: Target 9")
}
