package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/models"
)

func TestHistoryStorage_Keys(t *testing.T) {
	s := NewHistoryStorage(nil, "", arbor.NewLogger())

	assert.Equal(t, "proppulse:history:record:abc", s.recordKey("abc"))
	assert.Equal(t, "proppulse:history:user:u1", s.userKey("u1"))
	assert.Equal(t, "proppulse:history:all", s.allKey())
}

// Runs against a live server when PROPPULSE_TEST_REDIS_ADDR is set
func TestHistoryStorage_Live(t *testing.T) {
	addr := os.Getenv("PROPPULSE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PROPPULSE_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, &common.RedisConfig{Addr: addr})
	require.NoError(t, err)

	prefix := "proppulse-test:" + uuid.New().String()
	s := NewHistoryStorage(client, prefix, arbor.NewLogger())
	defer s.Close()

	now := time.Now().UTC().Truncate(time.Millisecond)
	score := 91.0
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveRecord(ctx, &models.HistoryRecord{
			ID:              id,
			UserID:          "u1",
			PropertyAddress: "123 Main St",
			ConfidenceScore: &score,
			CreatedAt:       now.Add(time.Duration(i) * time.Minute),
		}))
	}

	records, err := s.ListRecords(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "a", records[2].ID)

	require.NoError(t, s.DeleteRecord(ctx, "b"))
	_, err = s.GetRecord(ctx, "b")
	assert.ErrorIs(t, err, interfaces.ErrHistoryNotFound)

	deleted, err := s.DeleteOlderThan(ctx, now.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	records, err = s.ListRecords(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c", records[0].ID)

	require.NoError(t, s.DeleteRecord(ctx, "c"))
}
