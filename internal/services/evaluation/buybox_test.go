package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/proppulse/internal/models"
)

func TestTemplates(t *testing.T) {
	all := Templates()
	require.Len(t, all, 4)

	standard, ok := Template("proppulse standard")
	require.True(t, ok)
	assert.Equal(t, DefaultCriteria(), standard.Thresholds)

	conservative, ok := Template("Conservative")
	require.True(t, ok)
	assert.Equal(t, models.CriteriaThresholds{
		MinCapRate:    7.0,
		MinCashOnCash: 9,
		MinIRR:        16,
		MinDSCR:       1.4,
		MinYearBuilt:  1990,
		MinOccupancy:  95,
		MaxPrice:      10000000,
	}, conservative.Thresholds)

	valueAdd, ok := Template("Value Add")
	require.True(t, ok)
	assert.Equal(t, 1.25, valueAdd.Thresholds.MinDSCR)
	assert.Equal(t, 20000000.0, valueAdd.Thresholds.MaxPrice)

	_, ok = Template("Aggressive")
	assert.False(t, ok)

	// Callers cannot mutate the shared templates
	all[0].Labels[0] = "changed"
	again, _ := Template(StandardTemplate)
	assert.Equal(t, "Cap Rate > 6.5%", again.Labels[0])
}

func TestParseCriteriaLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		check  func(t *testing.T, c models.CriteriaThresholds)
	}{
		{
			name:   "no labels keeps defaults",
			labels: nil,
			check: func(t *testing.T, c models.CriteriaThresholds) {
				assert.Equal(t, DefaultCriteria(), c)
			},
		},
		{
			name:   "custom values",
			labels: []string{"Cap Rate > 7.25%", "IRR > 18%", "Asking Price < $2.5M", "Year Built > 2001"},
			check: func(t *testing.T, c models.CriteriaThresholds) {
				assert.Equal(t, 7.25, c.MinCapRate)
				assert.Equal(t, 18.0, c.MinIRR)
				assert.Equal(t, 2500000.0, c.MaxPrice)
				assert.Equal(t, 2001, c.MinYearBuilt)
				assert.Equal(t, 8.0, c.MinCashOnCash)
			},
		},
		{
			name:   "unparseable label is ignored",
			labels: []string{"Cap Rate > high", "Great schools nearby"},
			check: func(t *testing.T, c models.CriteriaThresholds) {
				assert.Equal(t, DefaultCriteria(), c)
			},
		},
		{
			name:   "price without suffix",
			labels: []string{"Max Price < $900,000"},
			check: func(t *testing.T, c models.CriteriaThresholds) {
				assert.Equal(t, 900000.0, c.MaxPrice)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ParseCriteriaLabels(tt.labels))
		})
	}
}

func TestParseUserCriteria(t *testing.T) {
	uc := ParseUserCriteria([]string{
		"Min Cash-on-Cash Return: 7.0%",
		"Cap Rate: 5.5% - 7.5%",
		"Year Built Threshold: 1990+",
		"Target Hold Period: 5-10 years",
		"DSCR > 1.25",
		"Market Conditions: Strong",
		"Property Condition: Good",
	}, "2500000", "5 years")

	assert.Equal(t, models.FlexString("7"), uc.MinCoCReturn)
	assert.Equal(t, models.FlexString("5.5%-7.5%"), uc.CapRateRange)
	assert.Equal(t, models.FlexString("1990"), uc.YearBuiltThreshold)
	assert.Equal(t, models.FlexString("5-10"), uc.HoldPeriod)
	assert.Equal(t, models.FlexString("1.25"), uc.MinDSCR)
	assert.Equal(t, models.FlexString("Strong"), uc.MarketConditions)
	assert.Equal(t, models.FlexString("Good"), uc.PropertyCondition)
	assert.Equal(t, models.FlexString("2500000"), uc.InvestmentAmount)
	assert.Equal(t, models.FlexString("5 years"), uc.Timeframe)
}
