package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/metrics"
	"github.com/ternarybob/proppulse/internal/models"
)

const (
	storeLocal  = "badger"
	storeHosted = "redis"

	appendTimeout = 10 * time.Second
)

// Service routes history records to the hosted store for signed-in users
// and to the local store otherwise.
type Service struct {
	local   interfaces.HistoryStorage
	hosted  interfaces.HistoryStorage
	logger  arbor.ILogger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService creates the history service. hosted may be nil.
func NewService(local, hosted interfaces.HistoryStorage, logger arbor.ILogger, m *metrics.Metrics) *Service {
	return &Service{
		local:   local,
		hosted:  hosted,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) storeFor(userID string) (interfaces.HistoryStorage, string) {
	if userID != "" && s.hosted != nil {
		return s.hosted, storeHosted
	}
	return s.local, storeLocal
}

// Append assigns an ID and creation time when missing and persists record
func (s *Service) Append(ctx context.Context, record *models.HistoryRecord) error {
	record.UserID = strings.TrimSpace(record.UserID)
	if record.ID == "" {
		record.ID = common.NewAnalysisID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}

	store, name := s.storeFor(record.UserID)
	err := store.SaveRecord(ctx, record)
	s.metrics.RecordHistory(name, "save", err)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	s.logger.Debug().
		Str("id", record.ID).
		Str("store", name).
		Str("property_address", record.PropertyAddress).
		Msg("History record saved")

	return nil
}

// AppendAsync appends in the background. Failures are logged and never
// reach the caller.
func (s *Service) AppendAsync(record *models.HistoryRecord) {
	common.SafeGo(s.logger, "history.append", func() {
		ctx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()

		if err := s.Append(ctx, record); err != nil {
			s.logger.Warn().Err(err).Str("property_address", record.PropertyAddress).Msg("Failed to save analysis history")
		}
	})
}

// List returns the records for userID, newest first
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	store, name := s.storeFor(strings.TrimSpace(userID))
	records, err := store.ListRecords(ctx, strings.TrimSpace(userID), limit)
	s.metrics.RecordHistory(name, "list", err)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a record owned by userID. A record owned by someone else
// is reported as not found.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	userID = strings.TrimSpace(userID)
	store, name := s.storeFor(userID)

	record, err := store.GetRecord(ctx, id)
	if err != nil {
		return err
	}
	if record.UserID != userID {
		return interfaces.ErrHistoryNotFound
	}

	err = store.DeleteRecord(ctx, id)
	s.metrics.RecordHistory(name, "delete", err)
	return err
}

// Prune deletes records older than maxAge from every configured store
func (s *Service) Prune(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.now().Add(-maxAge)

	total := 0
	for _, target := range []struct {
		name  string
		store interfaces.HistoryStorage
	}{
		{storeLocal, s.local},
		{storeHosted, s.hosted},
	} {
		if target.store == nil {
			continue
		}
		n, err := target.store.DeleteOlderThan(ctx, cutoff)
		s.metrics.RecordHistory(target.name, "prune", err)
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to prune %s history: %w", target.name, err)
		}
	}

	return total, nil
}
