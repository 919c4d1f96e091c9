package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-service/internal/catalog"
	"catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/internal/store"
	"catalog-service/pkg/config"
	"catalog-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

var testJWT = jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "handler-test", ExpirationHours: 1})

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(middleware.RequestIDMiddleware)

	articles := NewArticleHandler(store.NewMemoryRepository[model.Article](catalog.Articles))
	products := NewProductHandler(store.NewMemoryRepository[model.Product](catalog.Products))
	health := NewHealthHandler(map[string]PingFunc{"store": func(context.Context) error { return nil }})

	RegisterRoutes(e, middleware.NewAuthenticator(testToken, testJWT), articles, products, health)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = strings.NewReader(string(raw))
	} else {
		payload = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func productPayload(slug string) map[string]any {
	return map[string]any{
		"title":       "Product " + slug,
		"productsId":  slug,
		"thumbnail":   "https://cdn.example.com/" + slug + ".png",
		"description": "A handy product",
		"status":      "publish",
		"paymentType": "paid",
		"price":       19.5,
		"stock":       3,
		"category":    map[string]any{"title": "Templates", "categoryId": "templates"},
		"type":        []any{map[string]any{"title": "Website", "typeId": "website"}},
		"tags":        []any{map[string]any{"title": "Go", "tagsId": "go"}},
	}
}

func articlePayload(slug, status string) map[string]any {
	return map[string]any{
		"title":       "Article " + slug,
		"articlesId":  slug,
		"thumbnail":   "https://cdn.example.com/" + slug + ".png",
		"description": "Notes",
		"content":     "<p>body</p>",
		"status":      status,
		"category":    map[string]any{"title": "Backend", "categoryId": "backend"},
	}
}

func TestCreateFreeProductForcesZeroPrice(t *testing.T) {
	e := newTestServer(t)
	body := productPayload("free-kit")
	body["paymentType"] = "free"
	body["price"] = 99

	rec := do(t, e, http.MethodPost, "/api/products", testToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := decode[map[string]any](t, rec)
	assert.EqualValues(t, 0, got["price"])
	assert.EqualValues(t, 0, got["sold"])
	assert.Equal(t, map[string]any{"average": 0.0, "count": 0.0}, got["ratings"])
	assert.Regexp(t, `^[0-9a-f]{24}$`, got["_id"])
	assert.NotEmpty(t, got["created_at"])
	assert.NotEmpty(t, got["updated_at"])
	assert.NotContains(t, got, "createdAt")
}

func TestCreatePaidProductWithoutPrice(t *testing.T) {
	e := newTestServer(t)
	body := productPayload("paid-kit")
	body["price"] = 0

	rec := do(t, e, http.MethodPost, "/api/products", testToken, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	got := decode[ErrorResponse](t, rec)
	assert.Contains(t, got.Error, "price")
}

func TestCreateRequiresAuth(t *testing.T) {
	e := newTestServer(t)

	rec := do(t, e, http.MethodPost, "/api/articles", "", articlePayload("anon", "publish"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/articles", "wrong", articlePayload("anon", "publish"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateMissingRequiredField(t *testing.T) {
	e := newTestServer(t)
	body := articlePayload("no-content", "publish")
	delete(body, "content")

	rec := do(t, e, http.MethodPost, "/api/articles", testToken, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "content is required", decode[ErrorResponse](t, rec).Error)
}

func TestCreateDuplicateSlug(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/api/articles", testToken, articlePayload("dup", "publish")).Code)

	rec := do(t, e, http.MethodPost, "/api/articles", testToken, articlePayload("dup", "publish"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"articlesId already exists"}, decode[ErrorResponse](t, rec).Details)
}

func TestCreateMalformedBody(t *testing.T) {
	e := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(`{"title":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthorDefaultsToSessionIdentity(t *testing.T) {
	e := newTestServer(t)
	token, err := testJWT.GenerateToken("u-1", "Linus", "linus@example.com", "editor")
	require.NoError(t, err)

	rec := do(t, e, http.MethodPost, "/api/articles", token, articlePayload("by-session", "publish"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[ArticleResponse](t, rec)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Linus", got.Author.Name)

	body := articlePayload("by-body", "publish")
	body["author"] = map[string]any{"name": "Ken", "email": "ken@example.com"}
	rec = do(t, e, http.MethodPost, "/api/articles", token, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ken", decode[ArticleResponse](t, rec).Author.Name)
}

func TestDraftIsHiddenFromPublicReads(t *testing.T) {
	e := newTestServer(t)
	rec := do(t, e, http.MethodPost, "/api/articles", testToken, articlePayload("secret", "draft"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[ArticleResponse](t, rec)

	for _, path := range []string{"/api/articles/secret", "/api/articles?id=secret", "/api/articles/" + created.ID} {
		assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, path, "", nil).Code, path)
	}

	rec = do(t, e, http.MethodGet, "/api/articles/secret", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "draft", decode[ArticleResponse](t, rec).Status)
}

func TestRoundTripBySlug(t *testing.T) {
	e := newTestServer(t)
	rec := do(t, e, http.MethodPost, "/api/products", testToken, productPayload("round-trip"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[ProductResponse](t, rec)

	rec = do(t, e, http.MethodGet, "/api/products?id=round-trip", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ProductResponse](t, rec)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 19.5, got.Price)
	assert.Equal(t, 3, got.Stock)
	assert.Equal(t, []model.Tag{{Title: "Go", TagsID: "go"}}, got.Tags)
	assert.Equal(t, "website", got.Type.TypeID)
	assert.Equal(t, []string{}, got.Images)
}

func TestListingPagination(t *testing.T) {
	e := newTestServer(t)
	for i := 0; i < 25; i++ {
		rec := do(t, e, http.MethodPost, "/api/products", testToken, productPayload(fmt.Sprintf("item-%02d", i)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(t, e, http.MethodGet, "/api/products?page=3&limit=10", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[ListResponse[ProductResponse]](t, rec)

	assert.Len(t, page.Data, 5)
	assert.EqualValues(t, 25, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.Pages)

	rec = do(t, e, http.MethodGet, "/api/products?search=ITEM-1", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, decode[ListResponse[ProductResponse]](t, rec).Total)
}

func TestListingRequiresAuth(t *testing.T) {
	e := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/api/articles", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodGet, "/api/products?search=x", "", nil).Code)
}

func TestUpdate(t *testing.T) {
	e := newTestServer(t)
	rec := do(t, e, http.MethodPost, "/api/articles", testToken, articlePayload("editable", "draft"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[ArticleResponse](t, rec)

	rec = do(t, e, http.MethodPut, "/api/articles/missing", testToken, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/articles/editable", testToken, map[string]any{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/articles?id="+created.ID, testToken, map[string]any{"status": "publish", "title": "Edited"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[ArticleResponse](t, rec)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Edited", updated.Title)
	assert.Equal(t, "publish", updated.Status)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, created.Content, updated.Content)

	// now visible anonymously
	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/api/articles/editable", "", nil).Code)
}

func TestUpdateProductPricing(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/api/products", testToken, productPayload("pricing")).Code)

	rec := do(t, e, http.MethodPut, "/api/products/pricing", testToken, map[string]any{"price": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPut, "/api/products/pricing", testToken, map[string]any{"paymentType": "free"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, decode[ProductResponse](t, rec).Price)
}

func TestDelete(t *testing.T) {
	e := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, e, http.MethodPost, "/api/articles", testToken, articlePayload("gone", "publish")).Code)

	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodDelete, "/api/articles", testToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, e, http.MethodDelete, "/api/articles/gone", "", nil).Code)

	rec := do(t, e, http.MethodDelete, "/api/articles?id=gone", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "article deleted successfully", decode[MessageResponse](t, rec).Message)

	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodDelete, "/api/articles/gone", testToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/api/articles/gone", testToken, nil).Code)
}

func TestWriteErrorHidesInternalFailures(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	rec := c.Response().Writer.(*httptest.ResponseRecorder)

	require.NoError(t, writeError(c, catalog.Products, &catalog.PersistenceError{Err: errors.New("socket closed")}))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)
	rec := do(t, e, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","dependencies":{"store":"up"}}`, rec.Body.String())

	h := NewHealthHandler(map[string]PingFunc{
		"store": func(context.Context) error { return nil },
		"cache": func(context.Context) error { return errors.New("refused") },
	})
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), httptest.NewRecorder())
	require.NoError(t, h.Check(c))
	res := c.Response().Writer.(*httptest.ResponseRecorder)
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.JSONEq(t, `{"status":"degraded","dependencies":{"cache":"down","store":"up"}}`, res.Body.String())
}

func TestFrameworkErrorsUseErrorShape(t *testing.T) {
	e := newTestServer(t)
	e.GET("/explode", func(c echo.Context) error {
		panic("nil map write")
	})

	rec := do(t, e, http.MethodPatch, "/health", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"error":"Method Not Allowed"}`, rec.Body.String())

	// the /api group's catch-all may answer 404 instead of 405; either way the body is an ErrorResponse
	rec = do(t, e, http.MethodPatch, "/api/products", testToken, nil)
	assert.Contains(t, []int{http.StatusNotFound, http.StatusMethodNotAllowed}, rec.Code)
	assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
	assert.NotContains(t, rec.Body.String(), `"message"`)

	rec = do(t, e, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/explode", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestHTTPErrorHandlerKeepsClientMessages(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	rec := c.Response().Writer.(*httptest.ResponseRecorder)

	HTTPErrorHandler(echo.NewHTTPError(http.StatusRequestEntityTooLarge, "body too large"), c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.JSONEq(t, `{"error":"body too large"}`, rec.Body.String())
}
