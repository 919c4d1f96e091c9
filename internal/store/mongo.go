package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// documentValidationFailure is the server error code for $jsonSchema rejections.
const documentValidationFailure = 121

// MongoRepository stores one resource in a MongoDB collection.
type MongoRepository[T any] struct {
	client   *mongo.Client
	coll     *mongo.Collection
	resource catalog.Resource
}

func NewMongoRepository[T any](db *mongo.Database, resource catalog.Resource) *MongoRepository[T] {
	return &MongoRepository[T]{
		client:   db.Client(),
		coll:     db.Collection(resource.Name),
		resource: resource,
	}
}

// EnsureIndexes creates the unique slug index and the listing sort index.
func (r *MongoRepository[T]) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: r.resource.SlugField, Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s indexes: %w", r.resource.Name, err)
	}
	return nil
}

// MongoFilter translates a Query into a document filter.
func MongoFilter(resource catalog.Resource, q catalog.Query) bson.M {
	filter := bson.M{}
	switch q.Mode {
	case catalog.ModeByID:
		filter["_id"] = q.ObjectID
	case catalog.ModeBySlug:
		filter[resource.SlugField] = q.Slug
	case catalog.ModeBySearch:
		pattern := regexp.QuoteMeta(q.Search)
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if q.PublishedOnly {
		filter["status"] = model.StatusPublish
	}
	return filter
}

// listingSort is newest first, with the id as a tie breaker.
var listingSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (r *MongoRepository[T]) FindOne(ctx context.Context, q catalog.Query) (*T, error) {
	defer prometheus.TrackDBOperation("mongo_find_one")(time.Now())

	var doc T
	err := r.coll.FindOne(ctx, MongoFilter(r.resource, q)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", r.resource.Singular, err)
	}
	return &doc, nil
}

func (r *MongoRepository[T]) FindPage(ctx context.Context, q catalog.Query) ([]T, int64, error) {
	defer prometheus.TrackDBOperation("mongo_find_page")(time.Now())

	filter := MongoFilter(r.resource, q)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", r.resource.Name, err)
	}

	opts := options.Find().
		SetSort(listingSort).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", r.resource.Name, err)
	}
	defer cursor.Close(ctx)

	docs := make([]T, 0, q.Limit)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", r.resource.Name, err)
	}
	return docs, total, nil
}

func (r *MongoRepository[T]) Insert(ctx context.Context, doc *T) error {
	defer prometheus.TrackDBOperation("mongo_insert")(time.Now())

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return r.translate(err)
	}
	return nil
}

func (r *MongoRepository[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	defer prometheus.TrackDBOperation("mongo_replace")(time.Now())

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return r.translate(err)
	}
	if result.MatchedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, q catalog.Query) error {
	defer prometheus.TrackDBOperation("mongo_delete")(time.Now())

	result, err := r.coll.DeleteOne(ctx, MongoFilter(r.resource, q))
	if err != nil {
		return r.translate(err)
	}
	if result.DeletedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// translate maps driver write errors onto the persistence taxonomy.
func (r *MongoRepository[T]) translate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return &catalog.PersistenceError{
			Details: []string{r.resource.SlugField + " already exists"},
			Err:     err,
		}
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		var details []string
		for _, we := range writeErr.WriteErrors {
			if we.Code == documentValidationFailure {
				details = append(details, we.Message)
			}
		}
		if len(details) > 0 {
			return &catalog.PersistenceError{Details: details, Err: err}
		}
	}
	return &catalog.PersistenceError{Err: err}
}
