package propertydata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/attom"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/metrics"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/ternarybob/proppulse/internal/services/underwriting"
)

// ErrUpstreamUnavailable is returned when the upstream lookup fails and the
// deterministic fallback is disabled.
var ErrUpstreamUnavailable = errors.New("property data provider unavailable")

// ErrLocationRequired is returned for a blank location
var ErrLocationRequired = errors.New("location is required")

// Service resolves a location into derived property metrics
type Service struct {
	client  interfaces.PropertyDataClient
	config  common.PropertyDataConfig
	logger  arbor.ILogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates the property data service. client may be nil when no
// upstream key is configured; every lookup then uses the fallback.
func NewService(client interfaces.PropertyDataClient, config common.PropertyDataConfig, logger arbor.ILogger, m *metrics.Metrics) *Service {
	return &Service{
		client:  client,
		config:  config,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Lookup returns the display report for location
func (s *Service) Lookup(ctx context.Context, location string) (*models.PropertyReport, error) {
	m, err := s.LookupMetrics(ctx, location)
	if err != nil {
		return nil, err
	}
	report := underwriting.NewReport(m)
	return &report, nil
}

// LookupMetrics fetches the upstream record and derives metrics from it,
// substituting the deterministic fallback when the record is unusable.
func (s *Service) LookupMetrics(ctx context.Context, location string) (models.PropertyMetrics, error) {
	// Surrounding whitespace is not part of the location, so it never changes the hash
	location = strings.TrimSpace(location)
	if location == "" {
		return models.PropertyMetrics{}, ErrLocationRequired
	}

	if s.client == nil {
		s.logger.Debug().Str("location", location).Msg("No property data client configured, using fallback")
		return s.fallback(location, nil)
	}

	detail, err := s.client.PropertyDetail(ctx, location)
	if err != nil {
		s.metrics.RecordUpstreamError("property_detail")
		s.logger.Warn().Err(err).Str("location", location).Msg("Property detail lookup failed")
		return s.fallback(location, err)
	}

	record, err := underwriting.NormalizeRecord(location, detail, nil, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("location", location).Msg("Property detail unusable")
		return s.fallback(location, err)
	}

	zipcode := record.Zipcode
	if zipcode == "" {
		zipcode = s.config.DefaultZipcode
	}

	trend, assessment := s.enrich(ctx, location, zipcode)

	record, err = underwriting.NormalizeRecord(location, detail, trend, assessment)
	if err != nil {
		return s.fallback(location, err)
	}

	s.metrics.RecordLookup(models.SourceUpstream)
	s.logger.Debug().
		Str("location", location).
		Str("property_type", record.PropertyType).
		Float64("property_value", record.PropertyValue).
		Msg("Derived metrics from upstream record")

	return underwriting.Derive(record, s.now()), nil
}

// enrich fetches the sales trend and assessment concurrently. Either may
// fail; the caller treats a nil response as absent.
func (s *Service) enrich(ctx context.Context, location, zipcode string) (*attom.SalesTrendResponse, *attom.AssessmentResponse) {
	var (
		wg         sync.WaitGroup
		trend      *attom.SalesTrendResponse
		assessment *attom.AssessmentResponse
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		resp, err := s.client.SalesTrend(ctx, zipcode)
		if err != nil {
			s.metrics.RecordUpstreamError("sales_trend")
			s.logger.Debug().Err(err).Str("zipcode", zipcode).Msg("Sales trend unavailable")
			return
		}
		trend = resp
	}()
	go func() {
		defer wg.Done()
		resp, err := s.client.Assessment(ctx, location)
		if err != nil {
			s.metrics.RecordUpstreamError("assessment")
			s.logger.Debug().Err(err).Str("location", location).Msg("Assessment unavailable")
			return
		}
		assessment = resp
	}()
	wg.Wait()

	return trend, assessment
}

func (s *Service) fallback(location string, cause error) (models.PropertyMetrics, error) {
	if !s.config.FallbackEnabled {
		if cause == nil {
			cause = errors.New("no upstream client configured")
		}
		return models.PropertyMetrics{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, cause)
	}

	s.metrics.RecordLookup(models.SourceFallback)
	s.logger.Info().Str("location", location).Msg("Using deterministic fallback metrics")

	return underwriting.Fallback(location, s.now()), nil
}
