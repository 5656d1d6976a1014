package confidence

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ternarybob/proppulse/internal/models"
)

// ErrInvalidResponse is returned when model output cannot be used as an assessment.
var ErrInvalidResponse = errors.New("Invalid response from Gemini API")

var fencePattern = regexp.MustCompile("(?s)^\\s*```(?:json|JSON)?\\s*\\n?(.*?)\\n?\\s*```\\s*$")

var validate = validator.New()

// StripCodeFences removes a Markdown code fence wrapping the JSON body.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

// ParseAssessment decodes model output. Output that is not JSON after fence
// stripping, or that lacks a numeric confidenceScore in [0,100], is rejected
// with ErrInvalidResponse.
func ParseAssessment(raw string) (*models.ConfidenceAssessment, error) {
	var a models.ConfidenceAssessment
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if err := validate.Struct(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return &a, nil
}
