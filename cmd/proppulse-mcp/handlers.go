package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/ternarybob/proppulse/internal/services/evaluation"
)

type metricsLookup interface {
	LookupMetrics(ctx context.Context, location string) (models.PropertyMetrics, error)
}

type historyLister interface {
	List(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleDerivePropertyMetrics implements the derive_property_metrics tool
func handleDerivePropertyMetrics(lookup metricsLookup, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location, err := request.RequireString("location")
		if err != nil || strings.TrimSpace(location) == "" {
			return textResult("Error: location parameter is required"), nil
		}

		m, err := lookup.LookupMetrics(ctx, location)
		if err != nil {
			logger.Error().Err(err).Str("location", location).Msg("Metric derivation failed")
			return textResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		return textResult(formatMetrics(m)), nil
	}
}

// handleEvaluateDeal implements the evaluate_deal tool
func handleEvaluateDeal(lookup metricsLookup, passThreshold float64, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		location, err := request.RequireString("location")
		if err != nil || strings.TrimSpace(location) == "" {
			return textResult("Error: location parameter is required"), nil
		}

		name := request.GetString("template", evaluation.StandardTemplate)
		template, ok := evaluation.Template(name)
		if !ok {
			return textResult(fmt.Sprintf("Error: unknown buy box template %q", name)), nil
		}

		m, err := lookup.LookupMetrics(ctx, location)
		if err != nil {
			logger.Error().Err(err).Str("location", location).Msg("Metric derivation failed")
			return textResult(fmt.Sprintf("Lookup error: %v", err)), nil
		}

		result := evaluation.Evaluate(m, template.Thresholds, passThreshold)
		return textResult(formatEvaluation(location, template.Name, result)), nil
	}
}

// handleListBuyBoxTemplates implements the list_buybox_templates tool
func handleListBuyBoxTemplates() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(formatTemplates(evaluation.Templates())), nil
	}
}

// handleListHistory implements the list_history tool
func handleListHistory(history historyLister, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := request.GetInt("limit", 20)
		if limit <= 0 || limit > 100 {
			limit = 100
		}
		userID := request.GetString("user_id", "")

		records, err := history.List(ctx, userID, limit)
		if err != nil {
			logger.Error().Err(err).Msg("History listing failed")
			return textResult(fmt.Sprintf("History error: %v", err)), nil
		}

		return textResult(formatHistory(records)), nil
	}
}
