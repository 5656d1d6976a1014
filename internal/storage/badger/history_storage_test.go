package badger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

func newTestHistoryStorage(t *testing.T) interfaces.HistoryStorage {
	t.Helper()

	options := badgerhold.DefaultOptions
	options.Dir = t.TempDir()
	options.ValueDir = options.Dir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewHistoryStorage(&BadgerDB{store: store}, arbor.NewLogger())
}

func record(id, userID string, createdAt time.Time) *models.HistoryRecord {
	score := 87.0
	return &models.HistoryRecord{
		ID:              id,
		UserID:          userID,
		PropertyAddress: "123 Main St",
		ConfidenceScore: &score,
		CreatedAt:       createdAt,
		GeminiAnalysis:  json.RawMessage(`{"confidenceScore":87}`),
	}
}

func TestHistoryStorage_SaveGet(t *testing.T) {
	storage := newTestHistoryStorage(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, storage.SaveRecord(ctx, record("h1", "", now)))

	got, err := storage.GetRecord(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "123 Main St", got.PropertyAddress)
	require.NotNil(t, got.ConfidenceScore)
	assert.Equal(t, 87.0, *got.ConfidenceScore)
	assert.JSONEq(t, `{"confidenceScore":87}`, string(got.GeminiAnalysis))
	assert.True(t, now.Equal(got.CreatedAt))

	_, err = storage.GetRecord(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrHistoryNotFound)

	assert.Error(t, storage.SaveRecord(ctx, &models.HistoryRecord{}))
}

func TestHistoryStorage_ListNewestFirst(t *testing.T) {
	storage := newTestHistoryStorage(t)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, storage.SaveRecord(ctx, record("old", "", base.Add(-2*time.Hour))))
	require.NoError(t, storage.SaveRecord(ctx, record("new", "", base)))
	require.NoError(t, storage.SaveRecord(ctx, record("mid", "", base.Add(-time.Hour))))
	require.NoError(t, storage.SaveRecord(ctx, record("other", "user-2", base)))

	records, err := storage.ListRecords(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "new", records[0].ID)
	assert.Equal(t, "mid", records[1].ID)
	assert.Equal(t, "old", records[2].ID)

	limited, err := storage.ListRecords(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "new", limited[0].ID)

	userRecords, err := storage.ListRecords(ctx, "user-2", 0)
	require.NoError(t, err)
	require.Len(t, userRecords, 1)
	assert.Equal(t, "other", userRecords[0].ID)
}

func TestHistoryStorage_Delete(t *testing.T) {
	storage := newTestHistoryStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveRecord(ctx, record("h1", "", time.Now())))
	require.NoError(t, storage.DeleteRecord(ctx, "h1"))

	_, err := storage.GetRecord(ctx, "h1")
	assert.ErrorIs(t, err, interfaces.ErrHistoryNotFound)
}

func TestHistoryStorage_DeleteOlderThan(t *testing.T) {
	storage := newTestHistoryStorage(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, storage.SaveRecord(ctx, record("expired-1", "", now.Add(-100*24*time.Hour))))
	require.NoError(t, storage.SaveRecord(ctx, record("expired-2", "u1", now.Add(-91*24*time.Hour))))
	require.NoError(t, storage.SaveRecord(ctx, record("fresh", "", now)))

	deleted, err := storage.DeleteOlderThan(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	records, err := storage.ListRecords(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fresh", records[0].ID)
}
