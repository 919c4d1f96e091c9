package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	authenticatedKey = "authenticated"
	claimsKey        = "claims"
)

// Authenticator accepts either the static API token or a signed session token
// as a bearer credential.
type Authenticator struct {
	apiToken string
	jwt      *jwtutil.JWTUtil
}

// NewAuthenticator creates an Authenticator. An empty apiToken disables the
// static token, a nil or unconfigured jwt disables session tokens.
func NewAuthenticator(apiToken string, jwt *jwtutil.JWTUtil) *Authenticator {
	return &Authenticator{apiToken: apiToken, jwt: jwt}
}

// Middleware marks requests carrying a valid bearer token as authenticated.
// Requests without an Authorization header pass through unauthenticated;
// requests with a malformed or invalid one are rejected with 401.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			log := logger.FromContext(c)

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthAttempt(false)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}
			token := parts[1]

			if a.apiToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.apiToken)) == 1 {
				prometheus.RecordAuthAttempt(true)
				c.Set(authenticatedKey, true)
				return next(c)
			}

			if a.jwt.Enabled() {
				claims, err := a.jwt.ValidateToken(token)
				if err == nil {
					prometheus.RecordAuthAttempt(true)
					c.Set(authenticatedKey, true)
					c.Set(claimsKey, claims)
					log.Debug("Request authenticated with session token", zap.String("user_id", claims.UserID))
					return next(c)
				}
				log.Warn("Invalid session token", zap.Error(err))
			}

			prometheus.RecordAuthAttempt(false)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}
	}
}

// RequireAuth rejects requests the Authenticator did not mark as authenticated
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAuthenticated(c) {
			logger.FromContext(c).Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}
		return next(c)
	}
}

// IsAuthenticated reports whether the request carried a valid bearer token
func IsAuthenticated(c echo.Context) bool {
	ok, _ := c.Get(authenticatedKey).(bool)
	return ok
}

// ClaimsFromContext returns the session token claims, if the request was
// authenticated with one
func ClaimsFromContext(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(claimsKey).(*jwtutil.UserClaims)
	return claims, ok
}
