package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiService implements interfaces.LLMService on the Gemini API
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiService builds a Gemini client from config. The API key is required.
func NewGeminiService(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY, PROPPULSE_GEMINI_API_KEY, or gemini.api_key in config)")
	}

	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	timeout := common.ParseDurationOr(config.Timeout, 2*time.Minute)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Float32("temperature", config.Temperature).
		Msg("Gemini LLM service initialized")

	return &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}, nil
}

// Generate sends a single user prompt and returns the first candidate with text
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}

	startTime := time.Now()
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, config)
	if err != nil {
		s.logger.Error().Err(err).Str("model", s.config.Model).Msg("Gemini generation failed")
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Gemini")
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Int("prompt_length", len(prompt)).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation completed")

	return response.String(), nil
}

func (s *GeminiService) Provider() string {
	return string(common.LLMProviderGemini)
}

func (s *GeminiService) Model() string {
	return s.config.Model
}

// Close is a no-op; the genai client holds no closable resources
func (s *GeminiService) Close() error {
	return nil
}
