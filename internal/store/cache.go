package store

import (
	"context"
	"errors"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/pkg/cache"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CachedRepository puts a Redis read-through cache in front of single-record
// lookups. Entries are keyed by the resource's write generation; every write
// bumps the generation first, so a read that raced a write can only fill a
// key nobody looks up again. Redis failures degrade to cache misses and
// never fail the request.
type CachedRepository[T any] struct {
	next     Repository[T]
	client   *redis.Client
	resource catalog.Resource
	ttl      time.Duration
}

func NewCachedRepository[T any](next Repository[T], client *redis.Client, resource catalog.Resource, ttl time.Duration) *CachedRepository[T] {
	return &CachedRepository[T]{next: next, client: client, resource: resource, ttl: ttl}
}

func (r *CachedRepository[T]) key(generation int64, q catalog.Query) string {
	return cache.EntryKey(r.resource.Name, generation, q.Key())
}

func (r *CachedRepository[T]) FindOne(ctx context.Context, q catalog.Query) (*T, error) {
	log := logger.FromCtx(ctx)

	generation, err := cache.Generation(ctx, r.client, r.resource.Name)
	if err != nil {
		log.Warn("Cache generation read failed", zap.String("resource", r.resource.Name), zap.Error(err))
		prometheus.RecordCacheLookup(r.resource.Name, false)
		return r.next.FindOne(ctx, q)
	}
	key := r.key(generation, q)

	var cached T
	err = cache.GetCache(ctx, r.client, key, &cached)
	if err == nil {
		prometheus.RecordCacheLookup(r.resource.Name, true)
		return &cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	prometheus.RecordCacheLookup(r.resource.Name, false)

	doc, err := r.next.FindOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := cache.SetCache(ctx, r.client, key, doc, r.ttl); err != nil {
		log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return doc, nil
}

func (r *CachedRepository[T]) FindPage(ctx context.Context, q catalog.Query) ([]T, int64, error) {
	return r.next.FindPage(ctx, q)
}

func (r *CachedRepository[T]) Insert(ctx context.Context, doc *T) error {
	if err := r.next.Insert(ctx, doc); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedRepository[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	if err := r.next.Replace(ctx, id, doc); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedRepository[T]) Delete(ctx context.Context, q catalog.Query) error {
	if err := r.next.Delete(ctx, q); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedRepository[T]) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// invalidate moves the resource to a new generation, then drops the entries
// of old generations instead of waiting for their TTL.
func (r *CachedRepository[T]) invalidate(ctx context.Context) {
	log := logger.FromCtx(ctx)
	if _, err := cache.BumpGeneration(ctx, r.client, r.resource.Name); err != nil {
		log.Warn("Cache generation bump failed",
			zap.String("resource", r.resource.Name),
			zap.Error(err))
	}
	pattern := cache.KeyPattern(r.resource.Name)
	if err := cache.DeleteByPattern(ctx, r.client, pattern); err != nil {
		log.Warn("Cache invalidation failed",
			zap.String("pattern", pattern),
			zap.Error(err))
	}
}
