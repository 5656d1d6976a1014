package confidence

import (
	"fmt"
	"strconv"

	"github.com/ternarybob/proppulse/internal/models"
)

// Enforce recomputes dealPasses and the summary from confidenceScore, and
// replaces each present factor's target with the buyer's criterion when one
// was supplied. The model's own pass/fail is discarded.
func Enforce(a *models.ConfidenceAssessment, criteria models.UserCriteria, passThreshold float64) {
	if a.ConfidenceScore != nil {
		score := *a.ConfidenceScore
		a.DealPasses = score >= passThreshold
		a.Summary = Summary(a.DealPasses, score)
	}

	f := a.ConfidenceFactors
	if f == nil {
		return
	}

	overrideTarget(f.CocReturn, criteria.MinCoCReturn)
	overrideTarget(f.CapRate, criteria.CapRateRange)
	overrideTarget(f.YearBuilt, criteria.YearBuiltThreshold)
	overrideTarget(f.HoldPeriod, criteria.HoldPeriod)
	overrideTarget(f.DSCR, criteria.MinDSCR)
	overrideTarget(f.MarketConditions, criteria.MarketConditions)
	overrideTarget(f.PropertyCondition, criteria.PropertyCondition)
}

// Summary is the sentence shown with a confidence score.
func Summary(passes bool, score float64) string {
	verdict := "FAILS"
	if passes {
		verdict = "PASSES"
	}
	return fmt.Sprintf("Deal %s with %s%% confidence.", verdict, strconv.FormatFloat(score, 'f', -1, 64))
}

func overrideTarget(factor *models.ConfidenceFactor, target models.FlexString) {
	if factor != nil && target != "" {
		factor.Target = target
	}
}
