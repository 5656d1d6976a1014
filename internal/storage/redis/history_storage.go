package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/models"
)

// HistoryStorage implements interfaces.HistoryStorage on Redis. Each record
// is a JSON string; per-user and global sorted sets scored by creation time
// (unix milliseconds) index them.
type HistoryStorage struct {
	client *redis.Client
	prefix string
	logger arbor.ILogger
}

// NewClient connects to Redis and verifies the connection with PING
func NewClient(ctx context.Context, config *common.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}

	return client, nil
}

// NewHistoryStorage creates a HistoryStorage over an open client
func NewHistoryStorage(client *redis.Client, prefix string, logger arbor.ILogger) *HistoryStorage {
	if prefix == "" {
		prefix = "proppulse:history"
	}
	return &HistoryStorage{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (s *HistoryStorage) recordKey(id string) string {
	return s.prefix + ":record:" + id
}

func (s *HistoryStorage) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

func (s *HistoryStorage) allKey() string {
	return s.prefix + ":all"
}

func (s *HistoryStorage) SaveRecord(ctx context.Context, record *models.HistoryRecord) error {
	if record.ID == "" {
		return fmt.Errorf("history record ID is required")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal history record: %w", err)
	}

	member := redis.Z{Score: float64(record.CreatedAt.UnixMilli()), Member: record.ID}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.recordKey(record.ID), data, 0)
	pipe.ZAdd(ctx, s.userKey(record.UserID), member)
	pipe.ZAdd(ctx, s.allKey(), member)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}

	return nil
}

func (s *HistoryStorage) GetRecord(ctx context.Context, id string) (*models.HistoryRecord, error) {
	data, err := s.client.Get(ctx, s.recordKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, interfaces.ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}

	var record models.HistoryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history record: %w", err)
	}
	return &record, nil
}

func (s *HistoryStorage) ListRecords(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, s.userKey(userID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history records: %w", err)
	}
	if len(ids) == 0 {
		return []*models.HistoryRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load history records: %w", err)
	}

	records := make([]*models.HistoryRecord, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a record
			continue
		}
		var record models.HistoryRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			s.logger.Warn().Err(err).Str("id", ids[i]).Msg("Skipping unreadable history record")
			continue
		}
		records = append(records, &record)
	}

	return records, nil
}

func (s *HistoryStorage) DeleteRecord(ctx context.Context, id string) error {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.recordKey(id))
	pipe.ZRem(ctx, s.userKey(record.UserID), id)
	pipe.ZRem(ctx, s.allKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	return nil
}

func (s *HistoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.allKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to find expired history records: %w", err)
	}

	deleted := 0
	for _, id := range ids {
		err := s.DeleteRecord(ctx, id)
		if errors.Is(err, interfaces.ErrHistoryNotFound) {
			s.client.ZRem(ctx, s.allKey(), id)
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Debug().Int("deleted", deleted).Str("cutoff", cutoff.Format(time.RFC3339)).Msg("Expired hosted history records")
	}
	return deleted, nil
}

// Close closes the underlying client
func (s *HistoryStorage) Close() error {
	return s.client.Close()
}
