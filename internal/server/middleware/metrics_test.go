package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeHTTPStatus(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1xx", normalizeHTTPStatus(100))
	assert.Equal(t, "2xx", normalizeHTTPStatus(204))
	assert.Equal(t, "3xx", normalizeHTTPStatus(301))
	assert.Equal(t, "4xx", normalizeHTTPStatus(422))
	assert.Equal(t, "5xx", normalizeHTTPStatus(502))
}

func TestMetricsServesPrometheusEndpoint(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "request_duration_seconds")
}
