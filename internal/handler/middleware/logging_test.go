//go:build unit

package middleware_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"gym-booking/internal/handler/middleware"
	"gym-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CustomRecovery())
	r.Use(middleware.LoggingMiddleware(nil))
	r.Use(middleware.ErrorHandler())
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})
	r.GET("/panic", func(_ *gin.Context) {
		panic("boom")
	})
	return r
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	r := newLoggedRouter()

	t.Run("success: incoming id is echoed", func(t *testing.T) {
		w := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/ok", nil, "",
			map[string]string{middleware.RequestIDHeader: "req-123"})

		httptest.AssertHeaders(t, w, map[string]string{middleware.RequestIDHeader: "req-123"})
		assert.Equal(t, "req-123", w.Body.String())
	})

	t.Run("success: missing id is generated", func(t *testing.T) {
		w := httptest.PerformRequest(t, r, http.MethodGet, "/ok", nil, "")

		httptest.AssertHeaders(t, w, map[string]string{middleware.RequestIDHeader: ""})
		assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())
	})

	t.Run("success: oversized id is replaced", func(t *testing.T) {
		long := strings.Repeat("x", 65)
		w := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/ok", nil, "",
			map[string]string{middleware.RequestIDHeader: long})

		got := w.Header().Get(middleware.RequestIDHeader)
		assert.NotEmpty(t, got)
		assert.NotEqual(t, long, got)
	})
}

func TestCustomRecovery_ReportsRequestID(t *testing.T) {
	r := newLoggedRouter()

	w := httptest.PerformRequestWithHeaders(t, r, http.MethodGet, "/panic", nil, "",
		map[string]string{middleware.RequestIDHeader: "req-panic"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Error struct {
			Message   string `json:"message"`
			RequestID string `json:"requestId"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error.Message)
	assert.Equal(t, "req-panic", body.Error.RequestID)
}
