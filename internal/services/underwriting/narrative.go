package underwriting

import (
	"fmt"
	"time"

	"github.com/ternarybob/proppulse/internal/models"
)

const (
	defaultVacancyRate      = 3.8
	fallbackRentGrowth      = 4.2
	upstreamRentGrowthFloor = 3.5
	marketScore             = "A-"
	capRateTrend            = "Stable (-0.1% YoY)"
	marketOutlook           = "Positive"
)

var baseRecommendations = []string{
	"Consider value-add improvements to increase rents",
	"Negotiate favorable financing terms",
	"Implement efficient property management",
}

var baseRisks = []string{
	"Rent control regulations may limit rent increases",
	"High property taxes in California",
	"Potential earthquake insurance costs",
}

func upstreamReasoning(propertyType, location string, capRate, cashOnCash, irr float64) string {
	fundamentals, cashFlow, totalReturn := qualityWords(capRate, cashOnCash, irr)
	return fmt.Sprintf("This %s property in %s shows %s fundamentals with a %s cap rate. "+
		"The location provides %s cash-on-cash returns and %s total return potential. "+
		"The property benefits from ATTOM's comprehensive data analysis covering 150+ million properties nationwide.",
		propertyType, location, fundamentals, FormatPercent(capRate), cashFlow, totalReturn)
}

func fallbackReasoning(location string, capRate, cashOnCash, irr float64) string {
	fundamentals, cashFlow, totalReturn := qualityWords(capRate, cashOnCash, irr)
	return fmt.Sprintf("This property in %s shows %s fundamentals with a %s cap rate. "+
		"The location provides %s cash-on-cash returns and %s total return potential.",
		location, fundamentals, FormatPercent(capRate), cashFlow, totalReturn)
}

func upstreamRecommendations(r Record) []string {
	recs := append([]string(nil), baseRecommendations...)
	if r.AssessedValue > 0 && r.SalePrice > 0 && r.AssessedValue < r.SalePrice {
		recs = append(recs, "Property may be overvalued - consider negotiation")
	}
	if r.YearBuilt < 1990 {
		recs = append(recs, "Consider renovation opportunities for older property")
	}
	return recs
}

func fallbackRecommendations() []string {
	return append(append([]string(nil), baseRecommendations...), "Monitor local market trends and regulations")
}

func upstreamRisks(r Record) []string {
	risks := append([]string(nil), baseRisks...)
	if r.AssessedValue > 0 && r.SalePrice > 0 && r.AssessedValue > r.SalePrice {
		risks = append(risks, "Property may be undervalued - verify market conditions")
	}
	return risks
}

func fallbackRisks() []string {
	return append(append([]string(nil), baseRisks...), "Market volatility in certain neighborhoods")
}

func upstreamMarketInsights(r Record) models.MarketInsights {
	trend := "Stable market"
	if r.Appreciation > 0 {
		trend = "Strong growth"
	}
	rentGrowth := upstreamRentGrowthFloor
	if r.Appreciation != 0 {
		rentGrowth = r.Appreciation
	}

	return models.MarketInsights{
		MarketTrend:   trend,
		MarketScore:   marketScore,
		RentGrowth:    rentGrowth,
		VacancyRate:   defaultVacancyRate,
		OccupancyRate: 100 - defaultVacancyRate,
		CapRateTrend:  capRateTrend,
		MarketOutlook: marketOutlook,
		KeyDrivers: []string{
			"Limited housing supply in target markets",
			"Strong rental demand",
			"Transportation infrastructure improvements",
			"Economic recovery driving demand",
		},
	}
}

func fallbackMarketInsights() models.MarketInsights {
	return models.MarketInsights{
		MarketTrend:   "Strong growth",
		MarketScore:   marketScore,
		RentGrowth:    fallbackRentGrowth,
		VacancyRate:   defaultVacancyRate,
		OccupancyRate: 100 - defaultVacancyRate,
		CapRateTrend:  capRateTrend,
		MarketOutlook: marketOutlook,
		KeyDrivers: []string{
			"Limited housing supply in LA County",
			"Strong entertainment and tech industry growth",
			"Transportation infrastructure improvements",
			"Tourism recovery driving demand",
		},
	}
}

func upstreamComparables(r Record, value int64, capRate float64) []models.ComparableProperty {
	basis := r.SalePrice
	if basis <= 0 {
		basis = float64(value)
	}
	return []models.ComparableProperty{
		{
			Address:       "Similar property in area",
			Price:         roundHalfUp(basis * 0.95),
			CapRate:       capRate * 0.98,
			Distance:      "0.5 mi",
			SquareFootage: r.SquareFootage,
			YearBuilt:     r.YearBuilt,
			Occupancy:     98,
		},
	}
}

func fallbackComparables() []models.ComparableProperty {
	return []models.ComparableProperty{
		{Address: "1234 Sunset Blvd, Los Angeles, CA", Price: 3200000, CapRate: 5.8, Distance: "0.5 mi", SquareFootage: 15200, YearBuilt: 2019, Occupancy: 98},
		{Address: "5678 Hollywood Blvd, Los Angeles, CA", Price: 2950000, CapRate: 6.1, Distance: "1.2 mi", SquareFootage: 13800, YearBuilt: 2018, Occupancy: 96},
		{Address: "9012 Wilshire Blvd, Los Angeles, CA", Price: 3450000, CapRate: 5.5, Distance: "0.8 mi", SquareFootage: 16500, YearBuilt: 2020, Occupancy: 99},
	}
}

func dataSources(now time.Time) []models.DataSource {
	date := now.UTC().Format("2006-01-02")
	return []models.DataSource{
		{Name: "ATTOM Data Solutions", Type: "Property Data", LastUpdated: date, Coverage: "150+ million properties across the United States", Reliability: "High"},
		{Name: "County Assessor Records", Type: "Assessment Data", LastUpdated: date, Coverage: "Property assessments and tax records", Reliability: "High"},
		{Name: "MLS Data", Type: "Sales Data", LastUpdated: date, Coverage: "Recent sales and market trends", Reliability: "High"},
	}
}

func aiInsights() models.AIInsights {
	return models.AIInsights{
		MarketAnalysis:   "ATTOM Data analysis shows strong market fundamentals with limited supply and high demand. The comprehensive property database provides reliable valuation metrics.",
		InvestmentThesis: "This property offers attractive risk-adjusted returns based on ATTOM's extensive property database analysis. The location provides good appreciation prospects.",
		RiskAssessment:   "Primary risks include regulatory changes, property tax increases, and market volatility. ATTOM data helps identify market-specific risk factors.",
		ExitStrategy:     "Consider a 5-7 year hold period with potential refinancing opportunities. Exit through sale to institutional buyers or 1031 exchange.",
		ValueAddOpportunities: []string{
			"Implement energy efficiency upgrades to reduce operating costs",
			"Add amenities to increase rental rates",
			"Optimize unit mix for better market positioning",
			"Consider short-term rental potential for premium units",
		},
	}
}
