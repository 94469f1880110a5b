package events

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gravadigital/fring-api/internal/logger"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLog())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	assert.True(t, strings.HasPrefix(id, "req_"))
	assert.Equal(t, id, w.Body.String())
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "front-123")
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, "front-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "front-123", w.Body.String())
}

func TestOversizedRequestIDReplaced(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	assert.True(t, strings.HasPrefix(w.Header().Get(RequestIDHeader), "req_"))
}

func TestAccessLogUsesRouteTemplate(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup(logger.Options{Level: "debug", JSON: true, Output: &buf})
	t.Cleanup(func() { logger.Setup(logger.Options{Level: "info"}) })

	r := newRouter()
	r.GET("/items/:id", func(c *gin.Context) {
		c.Set("user_id", "u-1")
		c.Status(http.StatusNotFound)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))

	out := buf.String()
	assert.Contains(t, out, `"route":"/items/:id"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"user_id":"u-1"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "info", levelFor(http.StatusOK).String())
	assert.Equal(t, "warn", levelFor(http.StatusConflict).String())
	assert.Equal(t, "error", levelFor(http.StatusBadGateway).String())
}
