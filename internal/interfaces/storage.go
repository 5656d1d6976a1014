package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/proppulse/internal/models"
)

// ErrHistoryNotFound is returned when a history record does not exist
var ErrHistoryNotFound = errors.New("history record not found")

// HistoryStorage persists saved analyses
type HistoryStorage interface {
	SaveRecord(ctx context.Context, record *models.HistoryRecord) error
	GetRecord(ctx context.Context, id string) (*models.HistoryRecord, error)
	// ListRecords returns records for userID, newest first. limit <= 0 means all.
	ListRecords(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	// DeleteOlderThan removes records created before cutoff and returns the count removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// StorageManager owns the local database and the storages built on it
type StorageManager interface {
	HistoryStorage() HistoryStorage
	Close() error
}
