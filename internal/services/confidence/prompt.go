package confidence

import (
	"encoding/json"
	"fmt"

	"github.com/ternarybob/proppulse/internal/models"
)

// Factor weights (percent) requested from the model
const (
	WeightCocReturn         = 25
	WeightCapRate           = 20
	WeightYearBuilt         = 15
	WeightHoldPeriod        = 10
	WeightDSCR              = 15
	WeightMarketConditions  = 10
	WeightPropertyCondition = 5
)

const notSpecified = "not specified"

const responseSchema = `{
  "financialMetrics": {
    "capRate": "6.2%",
    "cashOnCash": "8.4%",
    "irr": "14.7%",
    "dscr": "1.34",
    "noi": "$187,200",
    "grm": "8.2",
    "purchasePrice": "$2,850,000",
    "grossRent": "$312,000",
    "expenses": "$124,800"
  },
  "marketAnalysis": {
    "rentGrowth": "4.2%",
    "occupancyRate": "96%",
    "marketTrend": "Strong growth",
    "comparableProperties": [
      {"address": "1556 Oak St", "distance": "0.3 mi", "price": "$2,650,000", "capRate": "5.9%", "cashOnCash": "7.8%"}
    ]
  },
  "riskAnalysis": [
    {"level": "Medium", "factor": "Crime rate 12% above city average", "impact": "May affect tenant retention"},
    {"level": "Low", "factor": "Property built in 1998, major systems aging", "impact": "Potential maintenance costs"}
  ],
  "recommendations": [
    "Negotiate purchase price down by 5% to improve returns",
    "Consider value-add opportunities in units 12-24",
    "Budget additional $25k for deferred maintenance"
  ],
  "confidenceScore": 87,
  "confidenceFactors": {
    "cocReturn": {"value": "8.4%", "target": "7.0%", "score": 100, "weight": 25},
    "capRate": {"value": "6.2%", "target": "5.5-7.5%", "score": 100, "weight": 20},
    "yearBuilt": {"value": "1998", "target": "1990+", "score": 80, "weight": 15},
    "holdPeriod": {"value": "7 years", "target": "5-10 years", "score": 100, "weight": 10},
    "dscr": {"value": "1.34", "target": "1.25+", "score": 100, "weight": 15},
    "marketConditions": {"value": "Strong", "score": 90, "weight": 10},
    "propertyCondition": {"value": "Good", "score": 85, "weight": 5}
  },
  "dealPasses": true,
  "summary": "Strong cash-on-cash return at 8.4% exceeds required 7.0%"
}`

const promptTemplate = `You are PropPulse AI, a commercial real estate underwriting platform. Analyze the following T12 (Trailing 12 Months) and Rent Roll data to provide accurate financial predictions and insights.

PROPERTY INFORMATION:
%s

T12 DATA (Trailing 12 Months):
%s

RENT ROLL DATA:
%s

Please provide a comprehensive analysis including:

1. FINANCIAL METRICS:
- Cap Rate calculation and analysis
- Cash-on-Cash return calculation
- IRR (Internal Rate of Return) projection
- DSCR (Debt Service Coverage Ratio) analysis
- NOI (Net Operating Income) trends
- Gross Rent Multiplier (GRM)

2. MARKET ANALYSIS:
- Rent growth trends and projections
- Occupancy rate analysis
- Market positioning assessment
- Comparable property analysis

3. RISK ASSESSMENT:
- Vacancy risk factors
- Rent collection risk
- Market volatility indicators
- Property condition risks

4. RECOMMENDATIONS:
- Value-add opportunities
- Pricing recommendations
- Financing suggestions
- Exit strategy options

5. CONFIDENCE SCORE CALCULATION:
Calculate confidence score (0-100%%) based on these key factors:
- Min CoC Return: Target %s (weight: %d%%)
- Cap Rate: Target %s (weight: %d%%)
- Year Built Threshold: Prefer %s (weight: %d%%)
- Target Hold Period: %s (weight: %d%%)
- DSCR: Target %s (weight: %d%%)
- Market Conditions: %s (weight: %d%%)
- Property Condition: %s (weight: %d%%)

Return the analysis in this exact JSON format:
%s

Provide accurate, realistic numbers based on the data provided. Focus on commercial real estate underwriting best practices.`

// BuildPrompt renders the underwriting prompt for a request.
func BuildPrompt(req *models.AnalysisRequest) string {
	c := req.UserCriteria
	return fmt.Sprintf(promptTemplate,
		indentJSON(req.PropertyInfo),
		indentJSON(req.T12Data),
		indentJSON(req.RentRollData),
		orNotSpecified(c.MinCoCReturn), WeightCocReturn,
		orNotSpecified(c.CapRateRange), WeightCapRate,
		orNotSpecified(c.YearBuiltThreshold), WeightYearBuilt,
		orNotSpecified(c.HoldPeriod), WeightHoldPeriod,
		orNotSpecified(c.MinDSCR), WeightDSCR,
		orNotSpecified(c.MarketConditions), WeightMarketConditions,
		orNotSpecified(c.PropertyCondition), WeightPropertyCondition,
		responseSchema,
	)
}

func indentJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(data)
}

func orNotSpecified(v models.FlexString) string {
	if v == "" {
		return notSpecified
	}
	return string(v)
}
