package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/interfaces"
)

// NewLLMService creates the service for llm.default_provider
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderGemini
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM service")

	switch provider {
	case common.LLMProviderGemini:
		service, err := NewGeminiService(&cfg.Gemini, logger)
		if err != nil {
			return nil, err
		}
		return service, nil
	case common.LLMProviderClaude:
		service, err := NewClaudeService(&cfg.Claude, logger)
		if err != nil {
			return nil, err
		}
		return service, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
