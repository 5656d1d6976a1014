package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// HistoryStorage implements interfaces.HistoryStorage for Badger
type HistoryStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewHistoryStorage creates a new HistoryStorage instance
func NewHistoryStorage(db *BadgerDB, logger arbor.ILogger) interfaces.HistoryStorage {
	return &HistoryStorage{
		db:     db,
		logger: logger,
	}
}

func (s *HistoryStorage) SaveRecord(ctx context.Context, record *models.HistoryRecord) error {
	if record.ID == "" {
		return fmt.Errorf("history record ID is required")
	}
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	return nil
}

func (s *HistoryStorage) GetRecord(ctx context.Context, id string) (*models.HistoryRecord, error) {
	var record models.HistoryRecord
	err := s.db.Store().Get(id, &record)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}
	return &record, nil
}

func (s *HistoryStorage) ListRecords(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	query := badgerhold.Where("UserID").Eq(userID).SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.HistoryRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}

	result := make([]*models.HistoryRecord, len(records))
	for i := range records {
		result[i] = &records[i]
	}
	return result, nil
}

func (s *HistoryStorage) DeleteRecord(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.HistoryRecord{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrHistoryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	return nil
}

func (s *HistoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	var expired []models.HistoryRecord
	if err := s.db.Store().Find(&expired, badgerhold.Where("CreatedAt").Lt(cutoff)); err != nil {
		return 0, fmt.Errorf("failed to find expired history records: %w", err)
	}

	deleted := 0
	for _, record := range expired {
		if err := s.db.Store().Delete(record.ID, &models.HistoryRecord{}); err != nil && err != badgerhold.ErrNotFound {
			return deleted, fmt.Errorf("failed to delete history record %s: %w", record.ID, err)
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Debug().Int("deleted", deleted).Str("cutoff", cutoff.Format(time.RFC3339)).Msg("Expired local history records")
	}
	return deleted, nil
}
