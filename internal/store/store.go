package store

import (
	"context"

	"catalog-service/internal/catalog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the persistence contract the handlers depend on. Every
// write touches a single record, so each call is atomic at the store level.
type Repository[T any] interface {
	// FindOne resolves an id or slug query. It returns catalog.ErrNotFound
	// when nothing matches.
	FindOne(ctx context.Context, q catalog.Query) (*T, error)
	// FindPage returns one page of records plus the total match count. The
	// two are read independently.
	FindPage(ctx context.Context, q catalog.Query) ([]T, int64, error)
	Insert(ctx context.Context, doc *T) error
	// Replace overwrites the record with the given store id. Last write wins.
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) error
	Delete(ctx context.Context, q catalog.Query) error
	Ping(ctx context.Context) error
}
