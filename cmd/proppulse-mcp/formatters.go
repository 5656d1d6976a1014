package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/proppulse/internal/models"
	"github.com/ternarybob/proppulse/internal/services/evaluation"
	"github.com/ternarybob/proppulse/internal/services/underwriting"
)

// formatMetrics renders derived metrics as markdown
func formatMetrics(m models.PropertyMetrics) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Property Metrics: %s\n\n", m.Location))
	sb.WriteString(fmt.Sprintf("**Source:** %s\n\n", m.Source))
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	sb.WriteString(fmt.Sprintf("| Property Value | %s |\n", underwriting.FormatCurrency(m.PropertyValue)))
	sb.WriteString(fmt.Sprintf("| Cap Rate | %s |\n", underwriting.FormatPercent(m.CapRate)))
	sb.WriteString(fmt.Sprintf("| Cash-on-Cash | %s |\n", underwriting.FormatPercent(m.CashOnCash)))
	sb.WriteString(fmt.Sprintf("| IRR | %s |\n", underwriting.FormatPercent(m.IRR)))
	sb.WriteString(fmt.Sprintf("| NOI | %s |\n", underwriting.FormatCurrency(m.NOI)))
	sb.WriteString(fmt.Sprintf("| Debt Service | %s |\n", underwriting.FormatCurrency(m.DebtService)))
	sb.WriteString(fmt.Sprintf("| Cash Flow | %s |\n", underwriting.FormatCurrency(m.CashFlow)))
	sb.WriteString(fmt.Sprintf("| DSCR | %.2f |\n", evaluation.DSCR(float64(m.NOI), float64(m.DebtService))))
	sb.WriteString(fmt.Sprintf("| Units | %d |\n", m.Units))
	sb.WriteString(fmt.Sprintf("| Year Built | %d |\n", m.BuildYear))

	if m.AIReasoning != "" {
		sb.WriteString("\n")
		sb.WriteString(m.AIReasoning)
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatEvaluation renders a deal evaluation as markdown
func formatEvaluation(location, template string, e models.DealEvaluation) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Deal Evaluation: %s\n\n", location))
	sb.WriteString(fmt.Sprintf("**Buy box:** %s\n\n", template))
	sb.WriteString(fmt.Sprintf("%s\n\n", e.Summary))
	sb.WriteString("| Criterion | Value | Required | Weight | Result |\n|---|---|---|---|---|\n")

	for _, name := range models.CriteriaOrder {
		c, ok := e.Evaluation[name]
		if !ok {
			continue
		}
		result := "FAIL"
		if c.Passed {
			result = "PASS"
		}
		sb.WriteString(fmt.Sprintf("| %s | %g | %g | %g | %s |\n", name, c.Value, c.Required, c.Weight, result))
	}

	if len(e.Recommendations) > 0 {
		sb.WriteString("\n## Recommendations\n\n")
		for _, r := range e.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}

	return sb.String()
}

// formatTemplates renders buy box templates as markdown
func formatTemplates(templates []models.BuyBoxTemplate) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Buy Box Templates (%d)\n\n", len(templates)))
	for _, t := range templates {
		sb.WriteString(fmt.Sprintf("## %s\n\n%s\n\n", t.Name, t.Description))
		for _, label := range t.Labels {
			sb.WriteString(fmt.Sprintf("- %s\n", label))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatHistory renders saved analyses as markdown
func formatHistory(records []*models.HistoryRecord) string {
	if len(records) == 0 {
		return "No saved analyses found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Saved Analyses (%d)\n\n", len(records)))
	for _, r := range records {
		score := "n/a"
		if r.ConfidenceScore != nil {
			score = fmt.Sprintf("%g%%", *r.ConfidenceScore)
		}
		sb.WriteString(fmt.Sprintf("- **%s** (%s) confidence %s, saved %s\n",
			r.PropertyAddress, r.ID, score, r.CreatedAt.Format("2006-01-02 15:04")))
	}

	return sb.String()
}
