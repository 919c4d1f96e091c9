package handler

import (
	"errors"
	"net/http"
	"time"

	"catalog-service/internal/catalog"
	"catalog-service/internal/model"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse is returned by deletes
type MessageResponse struct {
	Message string `json:"message"`
}

// ListResponse is one page of a listing
type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func newListResponse[T any](data []T, total int64, q catalog.Query) ListResponse[T] {
	return ListResponse[T]{
		Data:  data,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
		Pages: catalog.Pages(total, q.Limit),
	}
}

// ArticleResponse is the wire form of an article
type ArticleResponse struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	ArticlesID  string          `json:"articlesId"`
	Thumbnail   string          `json:"thumbnail"`
	Description string          `json:"description"`
	Content     string          `json:"content"`
	Status      string          `json:"status"`
	Author      *model.Author   `json:"author,omitempty"`
	Tags        []model.Tag     `json:"tags"`
	Category    *model.Category `json:"category"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

func formatArticle(a model.Article) ArticleResponse {
	return ArticleResponse{
		ID:          a.ID.Hex(),
		Title:       a.Title,
		ArticlesID:  a.ArticlesID,
		Thumbnail:   a.Thumbnail,
		Description: a.Description,
		Content:     a.Content,
		Status:      a.Status,
		Author:      a.Author,
		Tags:        nonNil(a.Tags),
		Category:    a.Category,
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}

// ProductResponse is the wire form of a product
type ProductResponse struct {
	ID          string            `json:"_id"`
	Title       string            `json:"title"`
	ProductsID  string            `json:"productsId"`
	Thumbnail   string            `json:"thumbnail"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Author      *model.Author     `json:"author,omitempty"`
	Tags        []model.Tag       `json:"tags"`
	Frameworks  []model.Framework `json:"frameworks"`
	Category    *model.Category   `json:"category"`
	Type        *model.Type       `json:"type"`
	Images      []string          `json:"images"`
	PaymentType string            `json:"paymentType"`
	Price       float64           `json:"price"`
	Discount    float64           `json:"discount"`
	Stock       int               `json:"stock"`
	Sold        int               `json:"sold"`
	Download    *model.Download   `json:"download,omitempty"`
	Ratings     model.Ratings     `json:"ratings"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func formatProduct(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID.Hex(),
		Title:       p.Title,
		ProductsID:  p.ProductsID,
		Thumbnail:   p.Thumbnail,
		Description: p.Description,
		Status:      p.Status,
		Author:      p.Author,
		Tags:        nonNil(p.Tags),
		Frameworks:  nonNil(p.Frameworks),
		Category:    p.Category,
		Type:        p.Type,
		Images:      nonNil(p.Images),
		PaymentType: p.PaymentType,
		Price:       p.Price,
		Discount:    p.Discount,
		Stock:       p.Stock,
		Sold:        p.Sold,
		Download:    p.Download,
		Ratings:     p.Ratings,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// writeError maps catalog and store errors onto status codes
func writeError(c echo.Context, res catalog.Resource, err error) error {
	log := logger.FromContext(c)

	var inputErr *catalog.InputError
	var persistErr *catalog.PersistenceError
	switch {
	case errors.As(err, &inputErr):
		prometheus.RecordValidationFailure(res.Name, inputErr.Field)
		log.Warn("Validation failed",
			zap.String("resource", res.Name),
			zap.String("field", inputErr.Field),
			zap.String("reason", inputErr.Message))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: inputErr.Message})

	case errors.Is(err, catalog.ErrNotFound):
		log.Info("Record not found", zap.String("resource", res.Name))
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: res.Singular + " not found"})

	case errors.As(err, &persistErr) && persistErr.FieldAttributable():
		prometheus.RecordValidationFailure(res.Name, "persistence")
		log.Warn("Store rejected write",
			zap.String("resource", res.Name),
			zap.Strings("details", persistErr.Details),
			zap.Error(persistErr.Err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: persistErr.Details})

	default:
		log.Error("Request failed",
			zap.String("resource", res.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// HTTPErrorHandler replaces echo's default so routing failures, framework
// errors and recovered panics answer with an ErrorResponse as well. Server
// side failures never expose their message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := ""
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	}
	if code >= http.StatusInternalServerError {
		logger.FromContext(c).Error("Unhandled request error",
			zap.Int("status", code),
			zap.Error(err))
		message = "internal server error"
	}
	if message == "" {
		message = http.StatusText(code)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, ErrorResponse{Error: message})
	}
	if writeErr != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(writeErr))
	}
}
