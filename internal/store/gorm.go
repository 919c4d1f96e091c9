package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// GormRepository stores one resource in a relational table. Embedded
// objects are serialized as JSON columns.
type GormRepository[T any] struct {
	db       *gorm.DB
	resource catalog.Resource
}

func NewGormRepository[T any](db *gorm.DB, resource catalog.Resource) *GormRepository[T] {
	return &GormRepository[T]{db: db, resource: resource}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// scope translates a Query into WHERE clauses.
func (r *GormRepository[T]) scope(q catalog.Query) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch q.Mode {
		case catalog.ModeByID:
			tx = tx.Where("id = ?", q.ObjectID.Hex())
		case catalog.ModeBySlug:
			tx = tx.Where(r.resource.SlugColumn+" = ?", q.Slug)
		case catalog.ModeBySearch:
			pattern := "%" + likeEscaper.Replace(q.Search) + "%"
			tx = tx.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
		}
		if q.PublishedOnly {
			tx = tx.Where("status = ?", model.StatusPublish)
		}
		return tx
	}
}

func (r *GormRepository[T]) FindOne(ctx context.Context, q catalog.Query) (*T, error) {
	defer prometheus.TrackDBOperation("sql_find_one")(time.Now())

	var doc T
	err := r.db.WithContext(ctx).Scopes(r.scope(q)).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", r.resource.Singular, err)
	}
	return &doc, nil
}

func (r *GormRepository[T]) FindPage(ctx context.Context, q catalog.Query) ([]T, int64, error) {
	defer prometheus.TrackDBOperation("sql_find_page")(time.Now())

	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Scopes(r.scope(q)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", r.resource.Name, err)
	}

	docs := make([]T, 0, q.Limit)
	err := r.db.WithContext(ctx).
		Scopes(r.scope(q)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Skip()).
		Limit(q.Limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.resource.Name, err)
	}
	return docs, total, nil
}

func (r *GormRepository[T]) Insert(ctx context.Context, doc *T) error {
	defer prometheus.TrackDBOperation("sql_insert")(time.Now())

	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return r.translate(err)
	}
	return nil
}

func (r *GormRepository[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	defer prometheus.TrackDBOperation("sql_replace")(time.Now())

	result := r.db.WithContext(ctx).Where("id = ?", id.Hex()).Select("*").Updates(doc)
	if result.Error != nil {
		return r.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *GormRepository[T]) Delete(ctx context.Context, q catalog.Query) error {
	defer prometheus.TrackDBOperation("sql_delete")(time.Now())

	result := r.db.WithContext(ctx).Scopes(r.scope(q)).Delete(new(T))
	if result.Error != nil {
		return r.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *GormRepository[T]) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepository[T]) translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &catalog.PersistenceError{
			Details: []string{r.resource.SlugField + " already exists"},
			Err:     err,
		}
	}
	return &catalog.PersistenceError{Err: err}
}
