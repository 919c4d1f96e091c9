package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog-service/pkg/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates the Redis client and checks the connection
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// SetCache stores data in Redis cache
func SetCache(ctx context.Context, client *redis.Client, key string, data interface{}, expiration time.Duration) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, dataJSON, expiration).Err()
}

// GetCache retrieves data from Redis cache. A miss returns redis.Nil.
func GetCache(ctx context.Context, client *redis.Client, key string, dest interface{}) error {
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// DeleteByPattern deletes all keys matching a pattern
func DeleteByPattern(ctx context.Context, client *redis.Client, pattern string) error {
	iter := client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// EntryKey is the key of one cached lookup of a resource at a generation.
func EntryKey(resource string, generation int64, lookup string) string {
	return fmt.Sprintf("%s:entry:g%d:%s", resource, generation, lookup)
}

// KeyPattern matches every cached entry of a resource, whatever its generation.
func KeyPattern(resource string) string {
	return resource + ":entry:*"
}

// GenerationKey holds the write counter of a resource. It is never expired.
func GenerationKey(resource string) string {
	return resource + ":generation"
}

// Generation reads the write counter of a resource. A missing counter is 0.
func Generation(ctx context.Context, client *redis.Client, resource string) (int64, error) {
	gen, err := client.Get(ctx, GenerationKey(resource)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// BumpGeneration advances the write counter so entries cached under older
// generations are never read again.
func BumpGeneration(ctx context.Context, client *redis.Client, resource string) (int64, error) {
	return client.Incr(ctx, GenerationKey(resource)).Result()
}
