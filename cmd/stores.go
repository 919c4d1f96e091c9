package main

import (
	"context"
	"fmt"

	"catalog-service/internal/catalog"
	"catalog-service/internal/handler"
	"catalog-service/internal/model"
	"catalog-service/internal/store"
	"catalog-service/pkg/cache"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"

	"go.uber.org/zap"
)

// stores bundles the repositories of both resources with the dependency
// checks for /health and the shutdown hooks of the backends.
type stores struct {
	articles store.Repository[model.Article]
	products store.Repository[model.Product]
	checks   map[string]handler.PingFunc
	closers  []closer
	log      *zap.Logger
}

type closer struct {
	name  string
	close func(context.Context) error
}

// Close runs the shutdown hooks in reverse order and logs their failures.
func (s *stores) Close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.close(ctx); err != nil {
			s.log.Error("Failed to close connection", zap.String("dependency", c.name), zap.Error(err))
			continue
		}
		s.log.Info("Connection closed", zap.String("dependency", c.name))
	}
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	s := &stores{checks: map[string]handler.PingFunc{}, log: log}

	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := database.ConnectMongo(ctx, &cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, closer{"mongo", client.Disconnect})
		db := client.Database(cfg.Mongo.Database)

		articles := store.NewMongoRepository[model.Article](db, catalog.Articles)
		products := store.NewMongoRepository[model.Product](db, catalog.Products)
		if err := articles.EnsureIndexes(ctx); err != nil {
			s.Close(ctx)
			return nil, err
		}
		if err := products.EnsureIndexes(ctx); err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.articles, s.products = articles, products
		log.Info("MongoDB connection established", zap.String("database", cfg.Mongo.Database))

	case config.StorePostgres:
		db, err := database.InitPostgres(&cfg.DB)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database object: %w", err)
		}
		s.closers = append(s.closers, closer{"postgres", func(context.Context) error { return sqlDB.Close() }})
		if err := database.MigrateModels(db, &model.Article{}, &model.Product{}); err != nil {
			s.Close(ctx)
			return nil, err
		}

		s.articles = store.NewGormRepository[model.Article](db, catalog.Articles)
		s.products = store.NewGormRepository[model.Product](db, catalog.Products)
		log.Info("Database connection established", zap.String("host", cfg.DB.Host))

	case config.StoreMemory:
		s.articles = store.NewMemoryRepository[model.Article](catalog.Articles)
		s.products = store.NewMemoryRepository[model.Product](catalog.Products)
		log.Warn("Using in-memory store, data is lost on restart")
	}
	s.checks["store"] = s.articles.Ping

	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, closer{"redis", func(context.Context) error { return client.Close() }})
		s.checks["cache"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }

		s.articles = store.NewCachedRepository(s.articles, client, catalog.Articles, cfg.Redis.TTL)
		s.products = store.NewCachedRepository(s.products, client, catalog.Products, cfg.Redis.TTL)
		log.Info("Redis cache enabled",
			zap.String("addr", cfg.Redis.Addr),
			zap.Duration("ttl", cfg.Redis.TTL))
	}

	return s, nil
}
