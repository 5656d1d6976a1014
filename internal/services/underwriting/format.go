package underwriting

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// roundHalfUp rounds half-way values toward positive infinity.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// FormatCurrency renders whole dollars as "$2,850,000" (negative: "-$12,345").
func FormatCurrency(amount int64) string {
	if amount < 0 {
		return "-$" + strings.TrimPrefix(humanize.Comma(amount), "-")
	}
	return "$" + humanize.Comma(amount)
}

// FormatInteger renders n with comma thousands separators.
func FormatInteger(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent renders a percentage with one decimal place: "6.2%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// formatPlainPercent renders a percentage without padding decimals: "70%".
func formatPlainPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

var numberCleaner = strings.NewReplacer("$", "", ",", "", "%", "")

// ParseNumber parses a display-formatted number such as "$2,850,000" or
// "6.2%". Unparseable input yields 0.
func ParseNumber(s string) float64 {
	cleaned := strings.TrimSpace(numberCleaner.Replace(s))
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
