package handler

import (
	"net/http"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/internal/store"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ArticleHandler serves /api/articles
type ArticleHandler struct {
	repo store.Repository[model.Article]
}

func NewArticleHandler(repo store.Repository[model.Article]) *ArticleHandler {
	return &ArticleHandler{repo: repo}
}

// GetArticles returns one article when an id is given, otherwise a page of
// articles. Listing requires authentication; anonymous single reads only see
// published articles.
func (h *ArticleHandler) GetArticles(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()
	params := lookupParams(c)
	authenticated := middleware.IsAuthenticated(c)

	if params.ID == "" && !authenticated {
		return unauthorized(c)
	}

	q := catalog.BuildQuery(params, !authenticated)
	log.Info("Getting articles",
		zap.String("mode", q.Mode.String()),
		zap.String("id", params.ID),
		zap.Bool("published_only", q.PublishedOnly))

	if q.Single() {
		article, err := h.repo.FindOne(ctx, q)
		if err != nil {
			return writeError(c, catalog.Articles, err)
		}
		prometheus.RecordCatalogOperation(catalog.Articles.Name, "get")
		return c.JSON(http.StatusOK, formatArticle(*article))
	}

	articles, total, err := h.repo.FindPage(ctx, q)
	if err != nil {
		return writeError(c, catalog.Articles, err)
	}

	data := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		data = append(data, formatArticle(a))
	}

	prometheus.RecordCatalogOperation(catalog.Articles.Name, "list")
	log.Info("Articles retrieved successfully",
		zap.Int("count", len(data)),
		zap.Int64("total", total),
		zap.Int("page", q.Page))
	return c.JSON(http.StatusOK, newListResponse(data, total, q))
}

// CreateArticle validates and stores a new article
func (h *ArticleHandler) CreateArticle(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	body, err := bindBody(c)
	if err != nil {
		return invalidBody(c, err)
	}

	article, err := catalog.BuildArticle(body)
	if err != nil {
		return writeError(c, catalog.Articles, err)
	}
	if article.Author == nil {
		article.Author = authorFromClaims(c)
	}

	now := time.Now().UTC()
	article.ID = primitive.NewObjectID()
	article.CreatedAt = now
	article.UpdatedAt = now

	if err := h.repo.Insert(ctx, article); err != nil {
		return writeError(c, catalog.Articles, err)
	}

	created, err := h.repo.FindOne(ctx, catalog.ByObjectID(article.ID))
	if err != nil {
		return writeError(c, catalog.Articles, err)
	}

	prometheus.RecordCatalogOperation(catalog.Articles.Name, "create")
	log.Info("Article created successfully",
		zap.String("id", created.ID.Hex()),
		zap.String("articles_id", created.ArticlesID),
		zap.String("status", created.Status))
	return c.JSON(http.StatusCreated, formatArticle(*created))
}

// UpdateArticle merges the supplied fields onto an existing article
func (h *ArticleHandler) UpdateArticle(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()
	params := lookupParams(c)

	if params.ID == "" {
		return missingID(c)
	}

	body, err := bindBody(c)
	if err != nil {
		return invalidBody(c, err)
	}

	article, err := h.repo.FindOne(ctx, catalog.BuildQuery(params, false))
	if err != nil {
		return writeError(c, catalog.Articles, err)
	}

	if err := catalog.PatchArticle(article, body); err != nil {
		return writeError(c, catalog.Articles, err)
	}
	article.UpdatedAt = time.Now().UTC()

	if err := h.repo.Replace(ctx, article.ID, article); err != nil {
		return writeError(c, catalog.Articles, err)
	}

	updated, err := h.repo.FindOne(ctx, catalog.ByObjectID(article.ID))
	if err != nil {
		return writeError(c, catalog.Articles, err)
	}

	prometheus.RecordCatalogOperation(catalog.Articles.Name, "update")
	log.Info("Article updated successfully",
		zap.String("id", updated.ID.Hex()),
		zap.Int("fields", len(body)))
	return c.JSON(http.StatusOK, formatArticle(*updated))
}

// DeleteArticle removes an article by id or slug
func (h *ArticleHandler) DeleteArticle(c echo.Context) error {
	log := logger.FromContext(c)
	params := lookupParams(c)

	if params.ID == "" {
		return missingID(c)
	}

	if err := h.repo.Delete(c.Request().Context(), catalog.BuildQuery(params, false)); err != nil {
		return writeError(c, catalog.Articles, err)
	}

	prometheus.RecordCatalogOperation(catalog.Articles.Name, "delete")
	log.Info("Article deleted successfully", zap.String("id", params.ID))
	return c.JSON(http.StatusOK, MessageResponse{Message: "article deleted successfully"})
}
