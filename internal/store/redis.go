package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"travelbot/internal/model"
)

const offerKeyPrefix = "travel:offers:"

// RedisOfferStore shares snapshots between action server replicas
type RedisOfferStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisOfferStore wraps an existing client
func NewRedisOfferStore(client *redis.Client, ttl time.Duration) *RedisOfferStore {
	return &RedisOfferStore{client: client, ttl: ttl}
}

func offerKey(conversationID string, kind model.OfferKind) string {
	return offerKeyPrefix + conversationID + ":" + string(kind)
}

func (s *RedisOfferStore) Save(ctx context.Context, conversationID string, result model.FormattedResult) (*Snapshot, error) {
	snap := newSnapshot(conversationID, result, time.Now())
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, offerKey(conversationID, result.Kind), b, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	return snap, nil
}

func (s *RedisOfferStore) Load(ctx context.Context, conversationID string, kind model.OfferKind) (*Snapshot, error) {
	data, err := s.client.Get(ctx, offerKey(conversationID, kind)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisOfferStore) Clear(ctx context.Context, conversationID string) error {
	keys := make([]string, 0, len(offerKinds))
	for _, kind := range offerKinds {
		keys = append(keys, offerKey(conversationID, kind))
	}
	return s.client.Del(ctx, keys...).Err()
}

// Ping checks the connection at startup
func (s *RedisOfferStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
