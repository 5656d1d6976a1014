package underwriting

import (
	"strings"

	"github.com/ternarybob/proppulse/internal/attom"
)

// Defaults used when the upstream record omits a field
const (
	DefaultPropertyValue = 2500000.0
	DefaultSquareFootage = 8400
	DefaultYearBuilt     = 1995
	DefaultUnits         = 12
	DefaultAppreciation  = 4.0
	DefaultPropertyType  = "multifamily"
)

// Record is the fully-defaulted view of an upstream lookup. Zero in
// AssessedValue, SalePrice, AnnualRent or Appreciation means unknown.
type Record struct {
	Location     string
	City         string
	Zipcode      string
	PropertyType string

	PropertyValue float64
	AssessedValue float64
	SalePrice     float64
	AnnualRent    float64

	SquareFootage int
	YearBuilt     int
	Units         int

	Appreciation float64
}

// AppreciationRate returns the sales-trend appreciation, or DefaultAppreciation when unknown.
func (r Record) AppreciationRate() float64 {
	if r.Appreciation != 0 {
		return r.Appreciation
	}
	return DefaultAppreciation
}

// NormalizeRecord validates the upstream responses once and resolves every
// optional field. trend and assessment may be nil. Returns attom.ErrNoProperty
// when detail carries no property record.
func NormalizeRecord(location string, detail *attom.PropertyDetailResponse, trend *attom.SalesTrendResponse, assessment *attom.AssessmentResponse) (Record, error) {
	if detail == nil || len(detail.Property) == 0 {
		return Record{}, attom.ErrNoProperty
	}
	p := detail.Property[0]

	r := Record{
		Location:      location,
		PropertyType:  DefaultPropertyType,
		SquareFootage: DefaultSquareFootage,
		YearBuilt:     DefaultYearBuilt,
		Units:         DefaultUnits,
	}

	if a := p.Address; a != nil {
		r.City = str(a.City)
		r.Zipcode = str(a.Zipcode)
	}

	if b := p.Building; b != nil {
		if t := strings.TrimSpace(str(b.PropertyType)); t != "" {
			r.PropertyType = t
		}
		if b.Size != nil && positive(b.Size.BuildingSqft) {
			r.SquareFootage = int(roundHalfUp(*b.Size.BuildingSqft))
		}
		if b.YearBuilt != nil && *b.YearBuilt > 0 {
			r.YearBuilt = *b.YearBuilt
		}
		if b.Units != nil && *b.Units > 0 {
			r.Units = *b.Units
		}
	}

	if p.Sale != nil && p.Sale.Price != nil && positive(p.Sale.Price.SaleAmount) {
		r.SalePrice = *p.Sale.Price.SaleAmount
	}
	if p.Rental != nil && positive(p.Rental.Rent) {
		r.AnnualRent = *p.Rental.Rent
	}

	if assessment != nil && len(assessment.Assessment) > 0 {
		if a := assessment.Assessment[0].Assessed; a != nil && positive(a.AssessedValue) {
			r.AssessedValue = *a.AssessedValue
		}
	}

	if trend != nil && trend.Trend != nil && trend.Trend.Appreciation != nil {
		r.Appreciation = *trend.Trend.Appreciation
	}

	switch {
	case r.AssessedValue > 0:
		r.PropertyValue = r.AssessedValue
	case r.SalePrice > 0:
		r.PropertyValue = r.SalePrice
	default:
		r.PropertyValue = DefaultPropertyValue
	}

	return r, nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}
