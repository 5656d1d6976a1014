package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the resolved service endpoints
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("PropPulse", GetVersion())

	fallback := "enabled"
	if !config.PropertyData.FallbackEnabled {
		fallback = "disabled"
	}

	logger.Info().
		Str("version", GetVersion()).
		Str("environment", config.Environment).
		Str("llm_provider", string(config.LLM.DefaultProvider)).
		Str("fallback", fallback).
		Bool("upstream_key", config.PropertyData.APIKey != "").
		Bool("hosted_history", config.Storage.Redis.Addr != "").
		Msg("PropPulse underwriting service")
}
