package evaluation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/proppulse/internal/models"
)

// StandardTemplate is the name of the default buy box.
const StandardTemplate = "PropPulse Standard"

var templates = []models.BuyBoxTemplate{
	{
		Name:        StandardTemplate,
		Description: "Standard PropPulse AI investment criteria for LA market",
		Labels:      []string{"Cap Rate > 6.5%", "Cash-on-Cash > 8%", "IRR > 14%", "DSCR > 1.3", "Year Built > 1985", "Occupancy > 90%", "Asking Price < $15M"},
	},
	{
		Name:        "Conservative",
		Description: "Conservative criteria for lower risk investments",
		Labels:      []string{"Cap Rate > 7.0%", "Cash-on-Cash > 9%", "IRR > 16%", "DSCR > 1.4", "Year Built > 1990", "Occupancy > 95%", "Asking Price < $10M"},
	},
	{
		Name:        "Value Add",
		Description: "Value-add opportunities with renovation potential",
		Labels:      []string{"Cap Rate > 5.5%", "Cash-on-Cash > 7%", "IRR > 12%", "DSCR > 1.25", "Year Built > 1980", "Occupancy > 85%", "Asking Price < $20M"},
	},
	{
		Name:        "Growth",
		Description: "Growth-focused criteria for emerging markets",
		Labels:      []string{"Cap Rate > 6.0%", "Cash-on-Cash > 8%", "IRR > 15%", "DSCR > 1.3", "Year Built > 1985", "Occupancy > 90%", "Asking Price < $25M"},
	},
}

func init() {
	for i := range templates {
		templates[i].Thresholds = ParseCriteriaLabels(templates[i].Labels)
	}
}

// Templates returns a copy of the predefined buy boxes.
func Templates() []models.BuyBoxTemplate {
	out := make([]models.BuyBoxTemplate, len(templates))
	for i, t := range templates {
		t.Labels = append([]string(nil), t.Labels...)
		out[i] = t
	}
	return out
}

// Template looks up a buy box by case-insensitive name.
func Template(name string) (models.BuyBoxTemplate, bool) {
	for _, t := range Templates() {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return models.BuyBoxTemplate{}, false
}

var (
	numberPattern  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	yearPattern    = regexp.MustCompile(`\d{4}`)
	pricePattern   = regexp.MustCompile(`(?i)\$?\s*(\d+(?:\.\d+)?)\s*([mk])?`)
	rangePattern   = regexp.MustCompile(`\d+-?\d*`)
)

// ParseCriteriaLabels turns labels such as "Cap Rate > 7.0%" into thresholds.
// Criteria without a recognised label keep their default.
func ParseCriteriaLabels(labels []string) models.CriteriaThresholds {
	c := DefaultCriteria()

	for _, label := range labels {
		lower := strings.ToLower(label)
		switch {
		case strings.Contains(lower, "cash-on-cash"), strings.Contains(lower, "cash on cash"):
			if v, ok := firstFloat(percentPattern, label); ok {
				c.MinCashOnCash = v
			}
		case strings.Contains(lower, "cap rate"):
			if v, ok := firstFloat(percentPattern, label); ok {
				c.MinCapRate = v
			}
		case strings.Contains(lower, "irr"):
			if v, ok := firstFloat(percentPattern, label); ok {
				c.MinIRR = v
			}
		case strings.Contains(lower, "dscr"):
			if m := numberPattern.FindString(label); m != "" {
				c.MinDSCR, _ = strconv.ParseFloat(m, 64)
			}
		case strings.Contains(lower, "year built"):
			if m := yearPattern.FindString(label); m != "" {
				c.MinYearBuilt, _ = strconv.Atoi(m)
			}
		case strings.Contains(lower, "occupancy"):
			if v, ok := firstFloat(percentPattern, label); ok {
				c.MinOccupancy = v
			}
		case strings.Contains(lower, "price"):
			if v, ok := parsePrice(label); ok {
				c.MaxPrice = v
			}
		}
	}

	return c
}

// ParseUserCriteria maps selected labels to the keys of the confidence path.
func ParseUserCriteria(labels []string, investmentAmount, timeframe string) models.UserCriteria {
	var uc models.UserCriteria

	for _, label := range labels {
		lower := strings.ToLower(label)
		switch {
		case strings.Contains(lower, "cash-on-cash"):
			if m := percentPattern.FindStringSubmatch(label); m != nil {
				uc.MinCoCReturn = models.FlexString(num(mustFloat(m[1])))
			}
		case strings.Contains(lower, "cap rate"):
			matches := percentPattern.FindAllString(label, -1)
			switch len(matches) {
			case 1:
				uc.CapRateRange = models.FlexString(matches[0])
			case 2:
				uc.CapRateRange = models.FlexString(strings.Join(matches, "-"))
			}
		case strings.Contains(lower, "year built"):
			if m := yearPattern.FindString(label); m != "" {
				uc.YearBuiltThreshold = models.FlexString(m)
			}
		case strings.Contains(lower, "hold"), strings.Contains(lower, "timeframe"):
			if m := rangePattern.FindString(label); m != "" {
				uc.HoldPeriod = models.FlexString(m)
			}
		case strings.Contains(lower, "dscr"):
			if m := numberPattern.FindString(label); m != "" {
				uc.MinDSCR = models.FlexString(m)
			}
		case strings.Contains(lower, "market"):
			uc.MarketConditions = models.FlexString(afterColon(label))
		case strings.Contains(lower, "property condition"):
			uc.PropertyCondition = models.FlexString(afterColon(label))
		}
	}

	uc.InvestmentAmount = models.FlexString(investmentAmount)
	uc.Timeframe = models.FlexString(timeframe)
	return uc
}

func firstFloat(re *regexp.Regexp, s string) (float64, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	return v, err == nil
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parsePrice(label string) (float64, bool) {
	m := pricePattern.FindStringSubmatch(strings.ReplaceAll(label, ",", ""))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "m":
		v *= 1000000
	case "k":
		v *= 1000
	}
	return v, v > 0
}

func afterColon(label string) string {
	if _, after, ok := strings.Cut(label, ":"); ok {
		if trimmed := strings.TrimSpace(after); trimmed != "" {
			return trimmed
		}
	}
	return label
}
