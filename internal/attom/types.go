package attom

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoProperty is returned when the provider answers but has no matching record.
var ErrNoProperty = errors.New("no property data found")

// PropertyDetailResponse is the /property/detail payload. Every field is
// optional; only the parts used for underwriting are modelled.
type PropertyDetailResponse struct {
	Property []Property `json:"property"`
}

// Property is a single property record.
type Property struct {
	Address  *Address  `json:"address,omitempty"`
	Building *Building `json:"building,omitempty"`
	Sale     *Sale     `json:"sale,omitempty"`
	Rental   *Rental   `json:"rental,omitempty"`
}

type Address struct {
	OneLine *string `json:"oneLine,omitempty"`
	City    *string `json:"city,omitempty"`
	Zipcode *string `json:"zipcode,omitempty"`
}

type Building struct {
	Size         *BuildingSize `json:"size,omitempty"`
	YearBuilt    *int          `json:"yearBuilt,omitempty"`
	Units        *int          `json:"units,omitempty"`
	PropertyType *string       `json:"propertyType,omitempty"`
}

type BuildingSize struct {
	BuildingSqft *float64 `json:"buildingsqft,omitempty"`
}

type Sale struct {
	Price *SalePrice `json:"price,omitempty"`
}

type SalePrice struct {
	SaleAmount *float64 `json:"saleamt,omitempty"`
}

type Rental struct {
	Rent *float64 `json:"rent,omitempty"`
}

// SalesTrendResponse is the /salestrend/detail payload.
type SalesTrendResponse struct {
	Trend *Trend `json:"trend,omitempty"`
}

type Trend struct {
	Appreciation *float64 `json:"appreciation,omitempty"`
}

// AssessmentResponse is the /assessment/detail payload.
type AssessmentResponse struct {
	Assessment []Assessment `json:"assessment"`
}

type Assessment struct {
	Assessed *Assessed `json:"assessed,omitempty"`
}

type Assessed struct {
	AssessedValue *float64 `json:"assessedValue,omitempty"`
}

// APIError represents a non-200 response from the provider.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ATTOM API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError is returned when the local limiter cannot admit a request
// before the context ends.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("ATTOM rate limit exceeded, retry after %v", e.RetryAfter)
}
