package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
	"github.com/ternarybob/proppulse/internal/app"
	"github.com/ternarybob/proppulse/internal/common"
)

func main() {
	var configFiles []string
	if configPath := os.Getenv("PROPPULSE_CONFIG"); configPath != "" {
		configFiles = append(configFiles, configPath)
	} else if _, err := os.Stat("proppulse.toml"); err == nil {
		configFiles = append(configFiles, "proppulse.toml")
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Minimal logging to avoid cluttering MCP stdio
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:       arbor_models.LogWriterTypeConsole,
		TimeFormat: "15:04:05",
	}).WithLevelFromString("warn")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"proppulse",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(createDerivePropertyMetricsTool(), handleDerivePropertyMetrics(application.PropertyDataService, logger))
	mcpServer.AddTool(createEvaluateDealTool(), handleEvaluateDeal(application.PropertyDataService, config.Evaluation.PassThreshold, logger))
	mcpServer.AddTool(createListBuyBoxTemplatesTool(), handleListBuyBoxTemplates())
	mcpServer.AddTool(createListHistoryTool(), handleListHistory(application.HistoryService, logger))

	// Blocks on stdio
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}
