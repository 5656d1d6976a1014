package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
)

const (
	defaultClaudeModel     = "claude-sonnet-4-20250514"
	defaultClaudeMaxTokens = 4096
	claudeTimeout          = 2 * time.Minute
)

// ClaudeService implements interfaces.LLMService on the Anthropic Messages API
type ClaudeService struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	maxTokens int
}

// NewClaudeService builds a Claude client from config. The API key is required.
func NewClaudeService(config *common.ClaudeConfig, logger arbor.ILogger, opts ...option.RequestOption) (*ClaudeService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY, PROPPULSE_CLAUDE_API_KEY, or claude.api_key in config)")
	}

	if config.Model == "" {
		config.Model = defaultClaudeModel
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(config.APIKey)}, opts...)...)

	logger.Debug().
		Str("model", config.Model).
		Float32("temperature", config.Temperature).
		Int("max_tokens", maxTokens).
		Msg("Claude LLM service initialized")

	return &ClaudeService{
		config:    config,
		logger:    logger,
		client:    client,
		maxTokens: maxTokens,
	}, nil
}

// Generate sends a single user message and concatenates the text blocks of the reply
func (s *ClaudeService) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, claudeTimeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	startTime := time.Now()
	resp, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		s.logger.Error().Err(err).Str("model", s.config.Model).Msg("Claude generation failed")
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var response strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			response.WriteString(block.Text)
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Claude API")
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Claude generation completed")

	return response.String(), nil
}

func (s *ClaudeService) Provider() string {
	return string(common.LLMProviderClaude)
}

func (s *ClaudeService) Model() string {
	return s.config.Model
}

func (s *ClaudeService) Close() error {
	return nil
}
