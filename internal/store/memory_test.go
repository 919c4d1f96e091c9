package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedArticles(t *testing.T, repo *MemoryRepository[model.Article], n int) []model.Article {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Article, 0, n)
	for i := 0; i < n; i++ {
		status := model.StatusPublish
		if i%2 == 1 {
			status = model.StatusDraft
		}
		a := model.Article{
			ID:          primitive.NewObjectID(),
			Title:       fmt.Sprintf("Article %d", i),
			ArticlesID:  fmt.Sprintf("article-%d", i),
			Description: "about go",
			Status:      status,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Insert(context.Background(), &a))
		out = append(out, a)
	}
	return out
}

func TestMemoryFindPageOrderAndPaging(t *testing.T) {
	repo := NewMemoryRepository[model.Article](catalog.Articles)
	seeded := seedArticles(t, repo, 25)

	q := catalog.BuildQuery(catalog.Params{Page: "3", Limit: "10"}, false)
	docs, total, err := repo.FindPage(context.Background(), q)
	require.NoError(t, err)

	assert.EqualValues(t, 25, total)
	require.Len(t, docs, 5)
	// newest first: page three holds the five oldest
	assert.Equal(t, seeded[4].ID, docs[0].ID)
	assert.Equal(t, seeded[0].ID, docs[4].ID)
}

func TestMemoryPageBeyondEnd(t *testing.T) {
	repo := NewMemoryRepository[model.Article](catalog.Articles)
	seedArticles(t, repo, 3)

	docs, total, err := repo.FindPage(context.Background(), catalog.BuildQuery(catalog.Params{Page: "9"}, false))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, docs)
}

func TestMemoryPublishedOnly(t *testing.T) {
	repo := NewMemoryRepository[model.Article](catalog.Articles)
	seeded := seedArticles(t, repo, 2)
	draft := seeded[1]

	_, err := repo.FindOne(context.Background(), catalog.BuildQuery(catalog.Params{ID: draft.ArticlesID}, true))
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	found, err := repo.FindOne(context.Background(), catalog.BuildQuery(catalog.Params{ID: draft.ID.Hex()}, false))
	require.NoError(t, err)
	assert.Equal(t, draft.ArticlesID, found.ArticlesID)
}

func TestMemorySearchIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepository[model.Article](catalog.Articles)
	seedArticles(t, repo, 4)

	_, total, err := repo.FindPage(context.Background(), catalog.BuildQuery(catalog.Params{Search: "ARTICLE 3"}, false))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestMemoryDuplicateSlug(t *testing.T) {
	repo := NewMemoryRepository[model.Article](catalog.Articles)
	seeded := seedArticles(t, repo, 2)

	dup := model.Article{ID: primitive.NewObjectID(), ArticlesID: seeded[0].ArticlesID}
	err := repo.Insert(context.Background(), &dup)

	var perr *catalog.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, []string{"articlesId already exists"}, perr.Details)

	renamed := seeded[1]
	renamed.ArticlesID = seeded[0].ArticlesID
	err = repo.Replace(context.Background(), renamed.ID, &renamed)
	assert.True(t, errors.As(err, &perr))
}

func TestMemoryReplaceAndDelete(t *testing.T) {
	repo := NewMemoryRepository[model.Article](catalog.Articles)
	seeded := seedArticles(t, repo, 1)

	updated := seeded[0]
	updated.Title = "Renamed"
	require.NoError(t, repo.Replace(context.Background(), updated.ID, &updated))

	got, err := repo.FindOne(context.Background(), catalog.ByObjectID(updated.ID))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	missing := primitive.NewObjectID()
	assert.ErrorIs(t, repo.Replace(context.Background(), missing, &updated), catalog.ErrNotFound)

	require.NoError(t, repo.Delete(context.Background(), catalog.ByObjectID(updated.ID)))
	assert.ErrorIs(t, repo.Delete(context.Background(), catalog.ByObjectID(updated.ID)), catalog.ErrNotFound)
}
