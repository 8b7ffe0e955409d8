package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/boardsync/internal/codec"
	"github.com/alexanderramin/boardsync/internal/domain"
)

// RedisBoardRepo implements BoardRepo on a Redis string key. Snapshots never
// expire; the key is the only schema version marker.
type RedisBoardRepo struct {
	redis *redis.Client
	key   string
}

// NewRedisBoardRepo creates a RedisBoardRepo. An empty key selects
// DefaultStorageKey.
func NewRedisBoardRepo(client *redis.Client, key string) *RedisBoardRepo {
	if client == nil {
		panic("repository.NewRedisBoardRepo: client is nil")
	}
	return &RedisBoardRepo{redis: client, key: keyOrDefault(key)}
}

func (r *RedisBoardRepo) Load(ctx context.Context) (*domain.Board, error) {
	data, err := r.redis.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SeedBoard(), nil
		}
		return nil, fmt.Errorf("loading board snapshot: %w", err)
	}
	return decodeSnapshot(r.key, data)
}

func (r *RedisBoardRepo) Save(ctx context.Context, b *domain.Board) error {
	payload, err := codec.Encode(b)
	if err != nil {
		return err
	}
	if err := r.redis.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("saving board snapshot: %w", err)
	}
	return nil
}
