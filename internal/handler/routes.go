package handler

import (
	"catalog-service/internal/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the catalog API. Reads go through optional auth so
// anonymous clients can fetch published records by id; writes require it.
func RegisterRoutes(e *echo.Echo, auth *middleware.Authenticator, articles *ArticleHandler, products *ProductHandler, health *HealthHandler) {
	e.GET("/health", health.Check)

	api := e.Group("/api", auth.Middleware())

	a := api.Group("/articles")
	a.GET("", articles.GetArticles)
	a.GET("/:id", articles.GetArticles)
	a.POST("", articles.CreateArticle, middleware.RequireAuth)
	a.PUT("", articles.UpdateArticle, middleware.RequireAuth)
	a.PUT("/:id", articles.UpdateArticle, middleware.RequireAuth)
	a.DELETE("", articles.DeleteArticle, middleware.RequireAuth)
	a.DELETE("/:id", articles.DeleteArticle, middleware.RequireAuth)

	p := api.Group("/products")
	p.GET("", products.GetProducts)
	p.GET("/:id", products.GetProducts)
	p.POST("", products.CreateProduct, middleware.RequireAuth)
	p.PUT("", products.UpdateProduct, middleware.RequireAuth)
	p.PUT("/:id", products.UpdateProduct, middleware.RequireAuth)
	p.DELETE("", products.DeleteProduct, middleware.RequireAuth)
	p.DELETE("/:id", products.DeleteProduct, middleware.RequireAuth)
}
