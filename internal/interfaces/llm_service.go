package interfaces

import (
	"context"
)

// LLMService generates text from a single prompt. Implementations wrap a
// hosted model (Gemini or Claude) and return the raw model output.
type LLMService interface {
	// Generate sends prompt to the model and returns its text response.
	// Callers own parsing; implementations do not retry.
	Generate(ctx context.Context, prompt string) (string, error)

	// Provider names the backend, e.g. "gemini".
	Provider() string

	// Model returns the model identifier requests are sent to.
	Model() string

	Close() error
}
