package models

// Property data origins reported in PropertyMetrics.Source
const (
	SourceUpstream = "attom"
	SourceFallback = "fallback"
)

// PropertyMetrics is the numeric result of a single derivation. It is built
// once per analysis and never mutated afterwards.
type PropertyMetrics struct {
	PropertyValue int64   `json:"propertyValue"`
	CapRate       float64 `json:"capRate"`
	CashOnCash    float64 `json:"cashOnCash"`
	IRR           float64 `json:"irr"`
	NOI           int64   `json:"noi"`
	DebtService   int64   `json:"debtService"`
	CashFlow      int64   `json:"cashFlow"`
	LTV           float64 `json:"ltv"`
	DownPayment   int64   `json:"downPayment"`
	LoanAmount    int64   `json:"loanAmount"`
	Units         int     `json:"units"`
	SquareFootage int     `json:"squareFootage"`
	BuildYear     int     `json:"buildYear"`
	WalkScore     int     `json:"walkScore"`

	AIReasoning          string               `json:"aiReasoning"`
	Recommendations      []string             `json:"recommendations"`
	Risks                []string             `json:"risks"`
	MarketInsights       MarketInsights       `json:"marketInsights"`
	ComparableProperties []ComparableProperty `json:"comparableProperties"`
	DataSources          []DataSource         `json:"dataSources"`
	AIInsights           AIInsights           `json:"aiInsights"`

	Location string `json:"location"`
	Source   string `json:"source"`
}

// MarketInsights summarises the submarket around the subject property
type MarketInsights struct {
	MarketTrend   string   `json:"marketTrend"`
	MarketScore   string   `json:"marketScore"`
	RentGrowth    float64  `json:"rentGrowth"`
	VacancyRate   float64  `json:"vacancyRate"`
	OccupancyRate float64  `json:"occupancyRate"`
	CapRateTrend  string   `json:"capRateTrend"`
	MarketOutlook string   `json:"marketOutlook"`
	KeyDrivers    []string `json:"keyDrivers"`
}

// ComparableProperty is a nearby listing used for context
type ComparableProperty struct {
	Address       string  `json:"address"`
	Price         int64   `json:"price"`
	CapRate       float64 `json:"capRate"`
	Distance      string  `json:"distance"`
	SquareFootage int     `json:"sqft"`
	YearBuilt     int     `json:"yearBuilt"`
	Occupancy     int     `json:"occupancy"`
}

// DataSource records provenance for a report
type DataSource struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	LastUpdated string `json:"lastUpdated"` // YYYY-MM-DD
	Coverage    string `json:"coverage"`
	Reliability string `json:"reliability"`
}

// AIInsights holds the templated long-form commentary
type AIInsights struct {
	MarketAnalysis        string   `json:"marketAnalysis"`
	InvestmentThesis      string   `json:"investmentThesis"`
	RiskAssessment        string   `json:"riskAssessment"`
	ExitStrategy          string   `json:"exitStrategy"`
	ValueAddOpportunities []string `json:"valueAddOpportunities"`
}

// PropertyReport is the display-formatted body served by /property-data.
// Currency fields look like "$2,850,000" and percentages like "6.2%".
type PropertyReport struct {
	PropertyValue string `json:"propertyValue"`
	CapRate       string `json:"capRate"`
	CashOnCash    string `json:"cashOnCash"`
	IRR           string `json:"irr"`
	NOI           string `json:"noi"`
	DebtService   string `json:"debtService"`
	CashFlow      string `json:"cashFlow"`
	LTV           string `json:"ltv"`
	DownPayment   string `json:"downPayment"`
	LoanAmount    string `json:"loanAmount"`
	Units         string `json:"units"`
	SquareFootage string `json:"squareFootage"`
	BuildYear     string `json:"buildYear"`
	WalkScore     string `json:"walkScore"`

	AIReasoning          string                   `json:"aiReasoning"`
	Recommendations      []string                 `json:"recommendations"`
	Risks                []string                 `json:"risks"`
	MarketInsights       MarketInsightsReport     `json:"marketInsights"`
	ComparableProperties []ComparablePropertyView `json:"comparableProperties"`
	DataSources          []DataSource             `json:"dataSources"`
	AIInsights           AIInsights               `json:"aiInsights"`

	Source string `json:"source,omitempty"`
}

// MarketInsightsReport is the display form of MarketInsights
type MarketInsightsReport struct {
	MarketTrend   string   `json:"marketTrend"`
	MarketScore   string   `json:"marketScore"`
	RentGrowth    string   `json:"rentGrowth"`
	VacancyRate   string   `json:"vacancyRate"`
	OccupancyRate string   `json:"occupancyRate"`
	CapRateTrend  string   `json:"capRateTrend"`
	MarketOutlook string   `json:"marketOutlook"`
	KeyDrivers    []string `json:"keyDrivers"`
}

// ComparablePropertyView is the display form of ComparableProperty
type ComparablePropertyView struct {
	Address   string `json:"address"`
	Price     string `json:"price"`
	CapRate   string `json:"capRate"`
	Distance  string `json:"distance"`
	Sqft      string `json:"sqft"`
	YearBuilt string `json:"yearBuilt"`
	Occupancy string `json:"occupancy"`
}
