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

// ProductHandler serves /api/products
type ProductHandler struct {
	repo store.Repository[model.Product]
}

func NewProductHandler(repo store.Repository[model.Product]) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// GetProducts returns one product when an id is given, otherwise a page of
// products. Listing requires authentication; anonymous single reads only see
// published products.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()
	params := lookupParams(c)
	authenticated := middleware.IsAuthenticated(c)

	if params.ID == "" && !authenticated {
		return unauthorized(c)
	}

	q := catalog.BuildQuery(params, !authenticated)
	log.Info("Getting products",
		zap.String("mode", q.Mode.String()),
		zap.String("id", params.ID),
		zap.Bool("published_only", q.PublishedOnly))

	if q.Single() {
		product, err := h.repo.FindOne(ctx, q)
		if err != nil {
			return writeError(c, catalog.Products, err)
		}
		prometheus.RecordCatalogOperation(catalog.Products.Name, "get")
		return c.JSON(http.StatusOK, formatProduct(*product))
	}

	products, total, err := h.repo.FindPage(ctx, q)
	if err != nil {
		return writeError(c, catalog.Products, err)
	}

	data := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, formatProduct(p))
	}

	prometheus.RecordCatalogOperation(catalog.Products.Name, "list")
	log.Info("Products retrieved successfully",
		zap.Int("count", len(data)),
		zap.Int64("total", total),
		zap.Int("page", q.Page))
	return c.JSON(http.StatusOK, newListResponse(data, total, q))
}

// CreateProduct validates and stores a new product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	ctx := c.Request().Context()

	body, err := bindBody(c)
	if err != nil {
		return invalidBody(c, err)
	}

	product, err := catalog.BuildProduct(body)
	if err != nil {
		return writeError(c, catalog.Products, err)
	}
	if product.Author == nil {
		product.Author = authorFromClaims(c)
	}

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	// ratings are aggregated from reviews, never taken from the payload
	product.Ratings = model.Ratings{}

	if err := h.repo.Insert(ctx, product); err != nil {
		return writeError(c, catalog.Products, err)
	}

	created, err := h.repo.FindOne(ctx, catalog.ByObjectID(product.ID))
	if err != nil {
		return writeError(c, catalog.Products, err)
	}

	prometheus.RecordCatalogOperation(catalog.Products.Name, "create")
	log.Info("Product created successfully",
		zap.String("id", created.ID.Hex()),
		zap.String("products_id", created.ProductsID),
		zap.String("status", created.Status),
		zap.String("payment_type", created.PaymentType),
		zap.Float64("price", created.Price))
	return c.JSON(http.StatusCreated, formatProduct(*created))
}

// UpdateProduct merges the supplied fields onto an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
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

	product, err := h.repo.FindOne(ctx, catalog.BuildQuery(params, false))
	if err != nil {
		return writeError(c, catalog.Products, err)
	}

	if err := catalog.PatchProduct(product, body); err != nil {
		return writeError(c, catalog.Products, err)
	}
	product.UpdatedAt = time.Now().UTC()

	if err := h.repo.Replace(ctx, product.ID, product); err != nil {
		return writeError(c, catalog.Products, err)
	}

	updated, err := h.repo.FindOne(ctx, catalog.ByObjectID(product.ID))
	if err != nil {
		return writeError(c, catalog.Products, err)
	}

	prometheus.RecordCatalogOperation(catalog.Products.Name, "update")
	log.Info("Product updated successfully",
		zap.String("id", updated.ID.Hex()),
		zap.Int("fields", len(body)))
	return c.JSON(http.StatusOK, formatProduct(*updated))
}

// DeleteProduct removes a product by id or slug
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)
	params := lookupParams(c)

	if params.ID == "" {
		return missingID(c)
	}

	if err := h.repo.Delete(c.Request().Context(), catalog.BuildQuery(params, false)); err != nil {
		return writeError(c, catalog.Products, err)
	}

	prometheus.RecordCatalogOperation(catalog.Products.Name, "delete")
	log.Info("Product deleted successfully", zap.String("id", params.ID))
	return c.JSON(http.StatusOK, MessageResponse{Message: "product deleted successfully"})
}
