package store

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps records in process. It backs STORE_DRIVER=memory
// for local runs and the handler tests.
type MemoryRepository[T model.Record] struct {
	mu       sync.RWMutex
	resource catalog.Resource
	docs     []T
}

func NewMemoryRepository[T model.Record](resource catalog.Resource) *MemoryRepository[T] {
	return &MemoryRepository[T]{resource: resource}
}

func (r *MemoryRepository[T]) matches(doc T, q catalog.Query) bool {
	if q.PublishedOnly && !doc.Published() {
		return false
	}
	switch q.Mode {
	case catalog.ModeByID:
		return doc.RecordID() == q.ObjectID
	case catalog.ModeBySlug:
		return doc.Slug() == q.Slug
	case catalog.ModeBySearch:
		needle := strings.ToLower(q.Search)
		title, description := doc.SearchText()
		return strings.Contains(strings.ToLower(title), needle) ||
			strings.Contains(strings.ToLower(description), needle)
	}
	return true
}

func (r *MemoryRepository[T]) FindOne(_ context.Context, q catalog.Query) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, doc := range r.docs {
		if r.matches(doc, q) {
			found := doc
			return &found, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (r *MemoryRepository[T]) FindPage(_ context.Context, q catalog.Query) ([]T, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]T, 0)
	for _, doc := range r.docs {
		if r.matches(doc, q) {
			matched = append(matched, doc)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		ci, cj := matched[i].Created(), matched[j].Created()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		idi, idj := matched[i].RecordID(), matched[j].RecordID()
		return bytes.Compare(idi[:], idj[:]) > 0
	})

	total := int64(len(matched))
	start := q.Skip()
	if start >= len(matched) {
		return []T{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepository[T]) Insert(_ context.Context, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.docs {
		if existing.Slug() == (*doc).Slug() {
			return &catalog.PersistenceError{Details: []string{r.resource.SlugField + " already exists"}}
		}
	}
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *MemoryRepository[T]) Replace(_ context.Context, id primitive.ObjectID, doc *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.docs {
		if existing.RecordID() != id && existing.Slug() == (*doc).Slug() {
			return &catalog.PersistenceError{Details: []string{r.resource.SlugField + " already exists"}}
		}
	}
	for i, existing := range r.docs {
		if existing.RecordID() == id {
			r.docs[i] = *doc
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (r *MemoryRepository[T]) Delete(_ context.Context, q catalog.Query) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, doc := range r.docs {
		if r.matches(doc, q) {
			r.docs = append(r.docs[:i], r.docs[i+1:]...)
			return nil
		}
	}
	return catalog.ErrNotFound
}

func (r *MemoryRepository[T]) Ping(context.Context) error {
	return nil
}
