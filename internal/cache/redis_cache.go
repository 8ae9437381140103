package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

const (
	redisCachePrefix    = "crm:cache:"
	invalidationChannel = "crm:cache:invalidate"
)

// setIfNotOlder writes ARGV[1] unless the cached snapshot has a higher
// version than ARGV[2]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfNotOlder = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current then
	local ok, decoded = pcall(cjson.decode, current)
	if ok and decoded.version and decoded.version > tonumber(ARGV[2]) then
		return 0
	end
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[1])
end
return 1
`)

// redisCache implements Redis-based caching
type redisCache struct {
	client *redis.Client
}

func newRedisCache(config CacheConfig) (*redisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client}, nil
}

func (rc *redisCache) get(ctx context.Context, name string) (store.Snapshot, error) {
	data, err := rc.client.Get(ctx, redisCachePrefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.Snapshot{}, ErrCacheMiss
		}
		return store.Snapshot{}, fmt.Errorf("Redis get error: %w", err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("JSON unmarshal error: %w", err)
	}

	return snap, nil
}

func (rc *redisCache) set(ctx context.Context, name string, snap store.Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("JSON marshal error: %w", err)
	}

	keys := []string{redisCachePrefix + name}
	if err := setIfNotOlder.Run(ctx, rc.client, keys, data, snap.Version, ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("Redis set error: %w", err)
	}

	return nil
}

func (rc *redisCache) delete(ctx context.Context, name string) error {
	if err := rc.client.Del(ctx, redisCachePrefix+name).Err(); err != nil {
		return fmt.Errorf("Redis delete error: %w", err)
	}
	return nil
}

// clear removes every cached collection
func (rc *redisCache) clear(ctx context.Context) error {
	keys, err := rc.client.Keys(ctx, redisCachePrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("Redis keys error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("Redis delete error: %w", err)
	}

	return nil
}

func (rc *redisCache) publishInvalidation(ctx context.Context, name string) error {
	return rc.client.Publish(ctx, invalidationChannel, name).Err()
}

// subscribeInvalidation calls handler for every invalidation event until ctx
// is cancelled.
func (rc *redisCache) subscribeInvalidation(ctx context.Context, handler func(string)) error {
	pubsub := rc.client.Subscribe(ctx, invalidationChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handler(msg.Payload)
		}
	}
}

func (rc *redisCache) close() error {
	return rc.client.Close()
}

func (rc *redisCache) healthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}
