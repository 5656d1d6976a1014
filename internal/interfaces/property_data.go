package interfaces

import (
	"context"

	"github.com/ternarybob/proppulse/internal/attom"
)

// PropertyDataClient is the upstream property-records provider
type PropertyDataClient interface {
	PropertyDetail(ctx context.Context, address string) (*attom.PropertyDetailResponse, error)
	SalesTrend(ctx context.Context, zipcode string) (*attom.SalesTrendResponse, error)
	Assessment(ctx context.Context, address string) (*attom.AssessmentResponse, error)
}
