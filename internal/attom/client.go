package attom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the ATTOM property API.
	DefaultBaseURL = "https://api.gateway.attomdata.com/propertyapi/v1.0.0"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// maxErrorBody caps how much of an error response is kept in APIError.
	maxErrorBody = 2048
)

// Client is an ATTOM property API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// NewClient creates a new ATTOM API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("APIKey", c.apiKey)

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Msg("ATTOM API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// PropertyDetail retrieves the property record for a free-text address.
// Returns ErrNoProperty when the response holds no record.
func (c *Client) PropertyDetail(ctx context.Context, address string) (*PropertyDetailResponse, error) {
	var result PropertyDetailResponse
	if err := c.get(ctx, "/property/detail", url.Values{"address1": {address}}, &result); err != nil {
		return nil, err
	}
	if len(result.Property) == 0 {
		return nil, ErrNoProperty
	}
	return &result, nil
}

// SalesTrend retrieves market sales trends for a zipcode.
func (c *Client) SalesTrend(ctx context.Context, zipcode string) (*SalesTrendResponse, error) {
	var result SalesTrendResponse
	if err := c.get(ctx, "/salestrend/detail", url.Values{"zipcode": {zipcode}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Assessment retrieves tax assessment data for a free-text address.
func (c *Client) Assessment(ctx context.Context, address string) (*AssessmentResponse, error) {
	var result AssessmentResponse
	if err := c.get(ctx, "/assessment/detail", url.Values{"address1": {address}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
