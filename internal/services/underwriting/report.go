package underwriting

import (
	"strconv"

	"github.com/ternarybob/proppulse/internal/models"
)

// NewReport renders metrics into the display-formatted response body.
func NewReport(m models.PropertyMetrics) models.PropertyReport {
	comps := make([]models.ComparablePropertyView, 0, len(m.ComparableProperties))
	for _, c := range m.ComparableProperties {
		comps = append(comps, models.ComparablePropertyView{
			Address:   c.Address,
			Price:     FormatCurrency(c.Price),
			CapRate:   FormatPercent(c.CapRate),
			Distance:  c.Distance,
			Sqft:      FormatInteger(int64(c.SquareFootage)),
			YearBuilt: strconv.Itoa(c.YearBuilt),
			Occupancy: strconv.Itoa(c.Occupancy) + "%",
		})
	}

	mi := m.MarketInsights
	return models.PropertyReport{
		PropertyValue: FormatCurrency(m.PropertyValue),
		CapRate:       FormatPercent(m.CapRate),
		CashOnCash:    FormatPercent(m.CashOnCash),
		IRR:           FormatPercent(m.IRR),
		NOI:           FormatCurrency(m.NOI),
		DebtService:   FormatCurrency(m.DebtService),
		CashFlow:      FormatCurrency(m.CashFlow),
		LTV:           formatPlainPercent(m.LTV),
		DownPayment:   FormatCurrency(m.DownPayment),
		LoanAmount:    FormatCurrency(m.LoanAmount),
		Units:         strconv.Itoa(m.Units),
		SquareFootage: FormatInteger(int64(m.SquareFootage)),
		BuildYear:     strconv.Itoa(m.BuildYear),
		WalkScore:     strconv.Itoa(m.WalkScore),

		AIReasoning:     m.AIReasoning,
		Recommendations: m.Recommendations,
		Risks:           m.Risks,
		MarketInsights: models.MarketInsightsReport{
			MarketTrend:   mi.MarketTrend,
			MarketScore:   mi.MarketScore,
			RentGrowth:    FormatPercent(mi.RentGrowth),
			VacancyRate:   FormatPercent(mi.VacancyRate),
			OccupancyRate: FormatPercent(mi.OccupancyRate),
			CapRateTrend:  mi.CapRateTrend,
			MarketOutlook: mi.MarketOutlook,
			KeyDrivers:    mi.KeyDrivers,
		},
		ComparableProperties: comps,
		DataSources:          m.DataSources,
		AIInsights:           m.AIInsights,
		Source:               m.Source,
	}
}

// MetricsFromReport recovers the numeric fields the scorer reads from a
// display-formatted report. Unparseable text becomes 0.
func MetricsFromReport(r models.PropertyReport) models.PropertyMetrics {
	return models.PropertyMetrics{
		PropertyValue: int64(ParseNumber(r.PropertyValue)),
		CapRate:       ParseNumber(r.CapRate),
		CashOnCash:    ParseNumber(r.CashOnCash),
		IRR:           ParseNumber(r.IRR),
		NOI:           int64(ParseNumber(r.NOI)),
		DebtService:   int64(ParseNumber(r.DebtService)),
		CashFlow:      int64(ParseNumber(r.CashFlow)),
		LTV:           ParseNumber(r.LTV),
		DownPayment:   int64(ParseNumber(r.DownPayment)),
		LoanAmount:    int64(ParseNumber(r.LoanAmount)),
		Units:         int(ParseNumber(r.Units)),
		SquareFootage: int(ParseNumber(r.SquareFootage)),
		BuildYear:     int(ParseNumber(r.BuildYear)),
		WalkScore:     int(ParseNumber(r.WalkScore)),
		MarketInsights: models.MarketInsights{
			RentGrowth:    ParseNumber(r.MarketInsights.RentGrowth),
			VacancyRate:   ParseNumber(r.MarketInsights.VacancyRate),
			OccupancyRate: ParseNumber(r.MarketInsights.OccupancyRate),
		},
		Source: r.Source,
	}
}
