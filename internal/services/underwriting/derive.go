package underwriting

import (
	"strings"
	"time"

	"github.com/ternarybob/proppulse/internal/models"
)

// Fixed underwriting assumptions
const (
	ImputedRentYield = 0.08  // annual rent as a share of value when rent is unknown
	ExpenseRatio     = 0.35  // operating expenses as a share of rent
	DownPaymentRatio = 0.30  // equity share; LTV is the remainder
	DebtServiceRate  = 0.055 // annual debt service as a share of the loan
	IRRPremium       = 2.0   // percentage points added to cap rate plus appreciation
	LoanToValue      = 70.0  // percent

	strongCapRate    = 6.5
	strongCashOnCash = 8.0
	strongIRR        = 14.0
)

// financing holds the values every derivation computes the same way.
type financing struct {
	noi         int64
	downPayment int64
	loanAmount  int64
	debtService int64
	cashFlow    int64
}

func finance(value int64, capRate float64) financing {
	f := financing{
		noi:         roundHalfUp(float64(value) * capRate / 100),
		downPayment: roundHalfUp(float64(value) * DownPaymentRatio),
	}
	f.loanAmount = value - f.downPayment
	f.debtService = roundHalfUp(float64(f.loanAmount) * DebtServiceRate)
	f.cashFlow = f.noi - f.debtService
	return f
}

// Derive computes metrics from a normalized upstream record. now only feeds
// the lastUpdated provenance dates.
func Derive(r Record, now time.Time) models.PropertyMetrics {
	value := roundHalfUp(r.PropertyValue)

	annualRent := r.AnnualRent
	if annualRent <= 0 {
		annualRent = r.PropertyValue * ImputedRentYield
	}
	expenses := annualRent * ExpenseRatio
	noi := annualRent - expenses

	capRate := 100 * noi / r.PropertyValue
	cashOnCash := 100 * noi / (r.PropertyValue * DownPaymentRatio)
	irr := capRate + r.AppreciationRate() + IRRPremium

	f := finance(value, capRate)

	m := models.PropertyMetrics{
		PropertyValue: value,
		CapRate:       capRate,
		CashOnCash:    cashOnCash,
		IRR:           irr,
		NOI:           f.noi,
		DebtService:   f.debtService,
		CashFlow:      f.cashFlow,
		LTV:           LoanToValue,
		DownPayment:   f.downPayment,
		LoanAmount:    f.loanAmount,
		Units:         r.Units,
		SquareFootage: r.SquareFootage,
		BuildYear:     r.YearBuilt,
		WalkScore:     WalkScore(r.City),
		Location:      r.Location,
		Source:        models.SourceUpstream,
	}

	m.AIReasoning = upstreamReasoning(r.PropertyType, r.Location, capRate, cashOnCash, irr)
	m.Recommendations = upstreamRecommendations(r)
	m.Risks = upstreamRisks(r)
	m.MarketInsights = upstreamMarketInsights(r)
	m.ComparableProperties = upstreamComparables(r, value, capRate)
	m.DataSources = dataSources(now)
	m.AIInsights = aiInsights()

	return m
}

// WalkScore is 60 plus 15 for Los Angeles and 10 for a downtown city name.
func WalkScore(city string) int {
	city = strings.ToLower(city)
	score := 60
	if strings.Contains(city, "los angeles") {
		score += 15
	}
	if strings.Contains(city, "downtown") {
		score += 10
	}
	return score
}

func qualityWords(capRate, cashOnCash, irr float64) (fundamentals, cashFlow, totalReturn string) {
	fundamentals, cashFlow, totalReturn = "moderate", "good", "stable"
	if capRate >= strongCapRate {
		fundamentals = "strong"
	}
	if cashOnCash >= strongCashOnCash {
		cashFlow = "excellent"
	}
	if irr >= strongIRR {
		totalReturn = "strong"
	}
	return
}
