package underwriting

import (
	"time"

	"github.com/ternarybob/proppulse/internal/models"
)

// Fallback synthesizes a complete, plausible report when no upstream record
// is usable. Every numeric field is a pure function of location; now only
// feeds the lastUpdated provenance dates.
func Fallback(location string, now time.Time) models.PropertyMetrics {
	h := LocationHash(location)

	value := 2000000 + int64(h%1000000)
	capRate := 6.0 + float64(h%20)/10
	cashOnCash := 7.5 + float64(h%30)/10
	irr := 12.0 + float64(h%60)/10

	f := finance(value, capRate)

	return models.PropertyMetrics{
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
		Units:         10 + int(h%20),
		SquareFootage: 6000 + int(h%8000),
		BuildYear:     1980 + int(h%40),
		WalkScore:     60 + int(h%40),

		AIReasoning:          fallbackReasoning(location, capRate, cashOnCash, irr),
		Recommendations:      fallbackRecommendations(),
		Risks:                fallbackRisks(),
		MarketInsights:       fallbackMarketInsights(),
		ComparableProperties: fallbackComparables(),
		DataSources:          dataSources(now),
		AIInsights:           aiInsights(),

		Location: location,
		Source:   models.SourceFallback,
	}
}
