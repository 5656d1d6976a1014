package models

// PassThreshold is the minimum score (percent) at which a deal passes. The
// rule-based evaluator and the confidence post-processor both read it.
const PassThreshold = 80.0

// CriterionName identifies one of the seven evaluation rules
type CriterionName string

const (
	CriterionCapRate    CriterionName = "capRate"
	CriterionCashOnCash CriterionName = "cashOnCash"
	CriterionIRR        CriterionName = "irr"
	CriterionDSCR       CriterionName = "dscr"
	CriterionYearBuilt  CriterionName = "yearBuilt"
	CriterionOccupancy  CriterionName = "occupancy"
	CriterionMaxPrice   CriterionName = "maxPrice"
)

// CriteriaOrder is the fixed enumeration order used for recommendations
var CriteriaOrder = []CriterionName{
	CriterionCapRate,
	CriterionCashOnCash,
	CriterionIRR,
	CriterionDSCR,
	CriterionYearBuilt,
	CriterionOccupancy,
	CriterionMaxPrice,
}

// CriteriaThresholds is a buyer's buy box
type CriteriaThresholds struct {
	MinCapRate    float64 `json:"minCapRate" validate:"gte=0"`
	MinCashOnCash float64 `json:"minCashOnCash" validate:"gte=0"`
	MinIRR        float64 `json:"minIRR" validate:"gte=0"`
	MinDSCR       float64 `json:"minDSCR" validate:"gte=0"`
	MinYearBuilt  int     `json:"minYearBuilt" validate:"gte=0"`
	MinOccupancy  float64 `json:"minOccupancy" validate:"gte=0,lte=100"`
	MaxPrice      float64 `json:"maxPrice" validate:"gt=0"`
}

// EvaluationCriterion is the outcome of a single rule
type EvaluationCriterion struct {
	Value    float64 `json:"value"`
	Required float64 `json:"required"`
	Passed   bool    `json:"passed"`
	Weight   float64 `json:"weight"`
}

// DealEvaluation is the weighted pass/fail result across all seven criteria
type DealEvaluation struct {
	Evaluation      map[CriterionName]EvaluationCriterion `json:"evaluation"`
	OverallScore    float64                               `json:"overallScore"`
	DealPasses      bool                                  `json:"dealPasses"`
	PassedCriteria  int                                   `json:"passedCriteria"`
	TotalCriteria   int                                   `json:"totalCriteria"`
	Summary         string                                `json:"summary"`
	Recommendations []string                              `json:"recommendations"`
}

// BuyBoxTemplate is a named, predefined set of criteria
type BuyBoxTemplate struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Labels      []string           `json:"criteria"`
	Thresholds  CriteriaThresholds `json:"thresholds"`
}
