package evaluation

import (
	"fmt"
	"strconv"

	"github.com/ternarybob/proppulse/internal/models"
)

// Criterion weights in hundredths. Scores are summed in these integer units
// so a total of exactly 80 is never lost to float rounding.
var weightPoints = map[models.CriterionName]int{
	models.CriterionCapRate:    20,
	models.CriterionCashOnCash: 20,
	models.CriterionIRR:        20,
	models.CriterionDSCR:       15,
	models.CriterionYearBuilt:  10,
	models.CriterionOccupancy:  10,
	models.CriterionMaxPrice:   5,
}

// Weight returns the fractional weight of a criterion.
func Weight(name models.CriterionName) float64 {
	return float64(weightPoints[name]) / 100
}

// DefaultCriteria returns the standard buy box.
func DefaultCriteria() models.CriteriaThresholds {
	return models.CriteriaThresholds{
		MinCapRate:    6.5,
		MinCashOnCash: 8.0,
		MinIRR:        14.0,
		MinDSCR:       1.3,
		MinYearBuilt:  1985,
		MinOccupancy:  90,
		MaxPrice:      15000000,
	}
}

// DSCR is NOI over debt service, or 0 when there is no debt service.
func DSCR(noi, debtService float64) float64 {
	if debtService > 0 {
		return noi / debtService
	}
	return 0
}

// EvaluateDeal scores metrics against criteria using the shared PassThreshold.
func EvaluateDeal(m models.PropertyMetrics, c models.CriteriaThresholds) models.DealEvaluation {
	return Evaluate(m, c, models.PassThreshold)
}

// Evaluate scores metrics against criteria. Every criterion is computed.
func Evaluate(m models.PropertyMetrics, c models.CriteriaThresholds, passThreshold float64) models.DealEvaluation {
	dscr := DSCR(float64(m.NOI), float64(m.DebtService))
	price := float64(m.PropertyValue)

	results := map[models.CriterionName]models.EvaluationCriterion{
		models.CriterionCapRate:    atLeast(models.CriterionCapRate, m.CapRate, c.MinCapRate),
		models.CriterionCashOnCash: atLeast(models.CriterionCashOnCash, m.CashOnCash, c.MinCashOnCash),
		models.CriterionIRR:        atLeast(models.CriterionIRR, m.IRR, c.MinIRR),
		models.CriterionDSCR:       atLeast(models.CriterionDSCR, dscr, c.MinDSCR),
		models.CriterionYearBuilt:  atLeast(models.CriterionYearBuilt, float64(m.BuildYear), float64(c.MinYearBuilt)),
		models.CriterionOccupancy:  atLeast(models.CriterionOccupancy, m.MarketInsights.OccupancyRate, c.MinOccupancy),
		models.CriterionMaxPrice: {
			Value:    price,
			Required: c.MaxPrice,
			Passed:   price <= c.MaxPrice,
			Weight:   Weight(models.CriterionMaxPrice),
		},
	}

	var earned, total, passed int
	for _, name := range models.CriteriaOrder {
		total += weightPoints[name]
		if results[name].Passed {
			earned += weightPoints[name]
			passed++
		}
	}

	score := 100 * float64(earned) / float64(total)
	passes := score >= passThreshold

	return models.DealEvaluation{
		Evaluation:      results,
		OverallScore:    score,
		DealPasses:      passes,
		PassedCriteria:  passed,
		TotalCriteria:   len(models.CriteriaOrder),
		Summary:         summary(passes, score, passed, len(models.CriteriaOrder)),
		Recommendations: Recommendations(results, c),
	}
}

func atLeast(name models.CriterionName, value, required float64) models.EvaluationCriterion {
	return models.EvaluationCriterion{
		Value:    value,
		Required: required,
		Passed:   value >= required,
		Weight:   Weight(name),
	}
}

func summary(passes bool, score float64, passed, total int) string {
	if passes {
		return fmt.Sprintf("Deal PASSES with %.1f%% score. %d/%d criteria met.", score, passed, total)
	}
	return fmt.Sprintf("Deal FAILS with %.1f%% score. Only %d/%d criteria met.", score, passed, total)
}

// ProceedRecommendation is the single recommendation when nothing failed.
const ProceedRecommendation = "Deal meets all PropPulse AI criteria - proceed with due diligence"

// Recommendations lists one remediation per failed criterion in CriteriaOrder.
func Recommendations(results map[models.CriterionName]models.EvaluationCriterion, c models.CriteriaThresholds) []string {
	var recs []string
	for _, name := range models.CriteriaOrder {
		if r, ok := results[name]; ok && !r.Passed {
			recs = append(recs, remediation(name, c))
		}
	}
	if len(recs) == 0 {
		return []string{ProceedRecommendation}
	}
	return recs
}

func remediation(name models.CriterionName, c models.CriteriaThresholds) string {
	switch name {
	case models.CriterionCapRate:
		return fmt.Sprintf("Consider negotiating a lower purchase price to improve cap rate above %s%%", num(c.MinCapRate))
	case models.CriterionCashOnCash:
		return fmt.Sprintf("Explore financing options with better terms to improve cash-on-cash return above %s%%", num(c.MinCashOnCash))
	case models.CriterionIRR:
		return fmt.Sprintf("Look for value-add opportunities to improve IRR above %s%%", num(c.MinIRR))
	case models.CriterionDSCR:
		return fmt.Sprintf("Improve NOI or negotiate better debt terms to meet DSCR requirements above %s", num(c.MinDSCR))
	case models.CriterionYearBuilt:
		return fmt.Sprintf("Consider properties built after %d for better condition and fewer maintenance issues", c.MinYearBuilt)
	case models.CriterionOccupancy:
		return fmt.Sprintf("Focus on properties with occupancy rates above %s%% for stable cash flow", num(c.MinOccupancy))
	case models.CriterionMaxPrice:
		return fmt.Sprintf("Consider properties under %s to stay within investment budget", millions(c.MaxPrice))
	}
	return ""
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// millions renders 15000000 as "$15M" and 2500000 as "$2.5M".
func millions(v float64) string {
	if v >= 1000000 {
		return "$" + num(v/1000000) + "M"
	}
	return "$" + num(v)
}
