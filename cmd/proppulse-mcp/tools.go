package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createDerivePropertyMetricsTool returns the derive_property_metrics tool definition
func createDerivePropertyMetricsTool() mcp.Tool {
	return mcp.NewTool("derive_property_metrics",
		mcp.WithDescription("Derive underwriting metrics (value, cap rate, cash-on-cash, IRR, NOI) for a property location"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("Street address or city, e.g. \"1200 Wilshire Blvd, Los Angeles, CA\""),
		),
	)
}

// createEvaluateDealTool returns the evaluate_deal tool definition
func createEvaluateDealTool() mcp.Tool {
	return mcp.NewTool("evaluate_deal",
		mcp.WithDescription("Score a property location against a buy box using the seven weighted criteria"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("Street address or city"),
		),
		mcp.WithString("template",
			mcp.Description("Buy box name (default: PropPulse Standard)"),
		),
	)
}

// createListBuyBoxTemplatesTool returns the list_buybox_templates tool definition
func createListBuyBoxTemplatesTool() mcp.Tool {
	return mcp.NewTool("list_buybox_templates",
		mcp.WithDescription("List the predefined buy box templates and their thresholds"),
	)
}

// createListHistoryTool returns the list_history tool definition
func createListHistoryTool() mcp.Tool {
	return mcp.NewTool("list_history",
		mcp.WithDescription("List saved analyses, newest first"),
		mcp.WithString("user_id",
			mcp.Description("Owner of the analyses (empty lists anonymous analyses)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20, max: 100)"),
		),
	)
}
