package handler

import (
	"net/http"
	"strings"

	"catalog-service/internal/catalog"
	"catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// lookupParams reads the id from the path or the query string, plus the
// listing parameters.
func lookupParams(c echo.Context) catalog.Params {
	id := c.Param("id")
	if id == "" {
		id = c.QueryParam("id")
	}
	return catalog.Params{
		ID:     strings.TrimSpace(id),
		Search: c.QueryParam("search"),
		Page:   c.QueryParam("page"),
		Limit:  c.QueryParam("limit"),
	}
}

// bindBody decodes the JSON body into a generic map. Path and query
// parameters are not bound.
func bindBody(c echo.Context) (map[string]any, error) {
	var body map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return nil, err
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

func invalidBody(c echo.Context, err error) error {
	logger.FromContext(c).Warn("Invalid request body", zap.Error(err))
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
}

func missingID(c echo.Context) error {
	logger.FromContext(c).Warn("Request without id")
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "id is required"})
}

func unauthorized(c echo.Context) error {
	logger.FromContext(c).Warn("Listing requires authentication")
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing authorization token"})
}

// authorFromClaims defaults the author to the session token identity
func authorFromClaims(c echo.Context) *model.Author {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return nil
	}
	name := claims.Name
	if name == "" {
		name = claims.Email
	}
	if name == "" {
		return nil
	}
	return &model.Author{Name: name, Email: claims.Email}
}
