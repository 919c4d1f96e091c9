package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromCtxFallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, FromCtx(context.Background()))
}

func TestContextRoundTrip(t *testing.T) {
	l := zap.NewNop().With(zap.String("request_id", "abc"))
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromCtx(ctx))
}

func TestFromContextPrefersEchoValue(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	fromReq := zap.NewNop()
	req = req.WithContext(WithContext(req.Context(), fromReq))
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Same(t, fromReq, FromContext(c))

	fromEcho := zap.NewNop()
	c.Set(EchoKey, fromEcho)
	assert.Same(t, fromEcho, FromContext(c))
}
