package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "crm"

// RedisStore keeps each collection in two Redis keys, the JSON array and its
// version counter. Writes are optimistic (WATCH/MULTI).
type RedisStore struct {
	client *redis.Client
}

// RedisOptions holds the connection settings for NewRedisStore
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient wraps an existing client. The connection is not
// checked.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func dataKey(collection string) string {
	return fmt.Sprintf("%s:collection:%s", redisKeyPrefix, collection)
}

func versionKey(collection string) string {
	return fmt.Sprintf("%s:version:%s", redisKeyPrefix, collection)
}

// Load implements Store
func (s *RedisStore) Load(ctx context.Context, collection string) (Snapshot, error) {
	pipe := s.client.TxPipeline()
	dataCmd := pipe.Get(ctx, dataKey(collection))
	versionCmd := pipe.Get(ctx, versionKey(collection))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Snapshot{}, fmt.Errorf("Redis load %s: %w", collection, err)
	}

	data, err := dataCmd.Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Snapshot{}, fmt.Errorf("Redis get %s: %w", collection, err)
	}

	version, err := versionCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Snapshot{}, fmt.Errorf("Redis get version %s: %w", collection, err)
	}

	return Snapshot{Data: data, Version: version}, nil
}

// Save implements Store
func (s *RedisStore) Save(ctx context.Context, collection string, data []byte, expectedVersion int64) (int64, error) {
	dk, vk := dataKey(collection), versionKey(collection)
	var next int64

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if !versionMatches(expectedVersion, current) {
			return ErrVersionConflict
		}

		next = current + 1
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dk, data, 0)
			pipe.Set(ctx, vk, next, 0)
			return nil
		})
		return err
	}, dk, vk)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, ErrVersionConflict), errors.Is(err, redis.TxFailedErr):
		return 0, ErrVersionConflict
	default:
		return 0, fmt.Errorf("Redis save %s: %w", collection, err)
	}
}

// Ping implements Pinger
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
