package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString accepts a JSON string, number or boolean and keeps its text.
// Generated output and browser clients are inconsistent about quoting.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		return fmt.Errorf("cannot use %s as a scalar value", raw[:1])
	}
	*f = FlexString(raw)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// FlexFloat accepts a JSON number or a numeric string such as "85" or "8.4%".
// Anything else decodes to 0 rather than failing the enclosing document.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// UserCriteria is the buyer input for the confidence path. Any field may be empty.
type UserCriteria struct {
	MinCoCReturn       FlexString `json:"minCoCReturn,omitempty"`
	CapRateRange       FlexString `json:"capRateRange,omitempty"`
	YearBuiltThreshold FlexString `json:"yearBuiltThreshold,omitempty"`
	HoldPeriod         FlexString `json:"holdPeriod,omitempty"`
	MinDSCR            FlexString `json:"minDSCR,omitempty"`
	MarketConditions   FlexString `json:"marketConditions,omitempty"`
	PropertyCondition  FlexString `json:"propertyCondition,omitempty"`
	InvestmentAmount   FlexString `json:"investmentAmount,omitempty"`
	Timeframe          FlexString `json:"timeframe,omitempty"`
}

// HasTargets reports whether any of the seven factor criteria is set
func (c UserCriteria) HasTargets() bool {
	return c.MinCoCReturn != "" || c.CapRateRange != "" || c.YearBuiltThreshold != "" ||
		c.HoldPeriod != "" || c.MinDSCR != "" || c.MarketConditions != "" || c.PropertyCondition != ""
}

// AnalysisRequest is the body of POST /gemini-analysis
type AnalysisRequest struct {
	T12Data      interface{}            `json:"t12Data"`
	RentRollData interface{}            `json:"rentRollData"`
	PropertyInfo map[string]interface{} `json:"propertyInfo"`
	UserCriteria UserCriteria           `json:"userCriteria"`

	// CriteriaLabels are buy-box labels ("Cap Rate > 6.5%"). They fill
	// UserCriteria when the request carries no explicit targets.
	CriteriaLabels []string `json:"criteriaLabels,omitempty"`

	// Optional history metadata
	UserID    string `json:"userId,omitempty"`
	ResultURL string `json:"resultUrl,omitempty"`
}

// ConfidenceFactor is one weighted input to the confidence score
type ConfidenceFactor struct {
	Value  FlexString `json:"value"`
	Target FlexString `json:"target,omitempty"`
	Score  FlexFloat  `json:"score"`
	Weight FlexFloat  `json:"weight"`
}

// ConfidenceFactors holds the seven named factors; absent factors stay nil
type ConfidenceFactors struct {
	CocReturn         *ConfidenceFactor `json:"cocReturn,omitempty"`
	CapRate           *ConfidenceFactor `json:"capRate,omitempty"`
	YearBuilt         *ConfidenceFactor `json:"yearBuilt,omitempty"`
	HoldPeriod        *ConfidenceFactor `json:"holdPeriod,omitempty"`
	DSCR              *ConfidenceFactor `json:"dscr,omitempty"`
	MarketConditions  *ConfidenceFactor `json:"marketConditions,omitempty"`
	PropertyCondition *ConfidenceFactor `json:"propertyCondition,omitempty"`
}

// RiskFactor is a single entry of riskAnalysis
type RiskFactor struct {
	Level  string `json:"level"`
	Factor string `json:"factor"`
	Impact string `json:"impact"`
}

// ConfidenceAssessment is the generated underwriting analysis after local
// post-processing. FinancialMetrics, MarketAnalysis and any top-level keys
// outside this struct (kept in Extra) pass through verbatim.
type ConfidenceAssessment struct {
	FinancialMetrics  json.RawMessage    `json:"financialMetrics,omitempty"`
	MarketAnalysis    json.RawMessage    `json:"marketAnalysis,omitempty"`
	RiskAnalysis      []RiskFactor       `json:"riskAnalysis,omitempty"`
	Recommendations   []string           `json:"recommendations,omitempty"`
	ConfidenceScore   *float64           `json:"confidenceScore" validate:"required,gte=0,lte=100"`
	ConfidenceFactors *ConfidenceFactors `json:"confidenceFactors,omitempty"`
	DealPasses        bool               `json:"dealPasses"`
	Summary           string             `json:"summary"`

	Extra map[string]json.RawMessage `json:"-"`
}

var assessmentKeys = []string{
	"financialMetrics", "marketAnalysis", "riskAnalysis", "recommendations",
	"confidenceScore", "confidenceFactors", "dealPasses", "summary",
}

// assessmentFields has the fields of ConfidenceAssessment without its methods
type assessmentFields ConfidenceAssessment

func (a *ConfidenceAssessment) UnmarshalJSON(data []byte) error {
	var fields assessmentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key := range all {
		for _, known := range assessmentKeys {
			// encoding/json matches field names case-insensitively
			if strings.EqualFold(key, known) {
				delete(all, key)
				break
			}
		}
	}

	fields.Extra = nil
	if len(all) > 0 {
		fields.Extra = all
	}
	*a = ConfidenceAssessment(fields)
	return nil
}

func (a ConfidenceAssessment) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(assessmentFields(a))
	if err != nil || len(a.Extra) == 0 {
		return data, err
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range a.Extra {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}
