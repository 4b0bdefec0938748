package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeteredRouter(t *testing.T, skipRoutes ...string) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("isolator")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "isolator", skipRoutes...))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/v1/isolation/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"enabled": true})
	})
	router.POST("/v1/isolation/containers/:id/new-circuit", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/v1/isolation/credentials", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	})
	return router, provider
}

func request(router http.Handler, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	t.Run("Success_CountsByRoutePattern", func(t *testing.T) {
		router, provider := newMeteredRouter(t)

		assert.Equal(t, http.StatusNoContent,
			request(router, http.MethodPost, "/v1/isolation/containers/1/new-circuit"))
		assert.Equal(t, http.StatusNoContent,
			request(router, http.MethodPost, "/v1/isolation/containers/2/new-circuit"))

		output := scrape(t, provider)
		assertBizMetricLine(t, output, `isolator_http_requests_total`,
			`method="POST".*path="/v1/isolation/containers/:id/new-circuit".*status_code="204"`, `2`)
		assert.NotContains(t, output, `path="/v1/isolation/containers/1/new-circuit"`)
	})

	t.Run("Success_RecordsStatusCode", func(t *testing.T) {
		router, provider := newMeteredRouter(t)

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/v1/isolation/status"))
		}
		assert.Equal(t, http.StatusNotFound, request(router, http.MethodGet, "/v1/isolation/credentials"))

		output := scrape(t, provider)
		assertBizMetricLine(t, output, `isolator_http_requests_total`,
			`method="GET".*path="/v1/isolation/status".*status_code="200"`, `3`)
		assertBizMetricLine(t, output, `isolator_http_requests_total`,
			`path="/v1/isolation/credentials".*status_code="404"`, `1`)
		assertBizMetricLine(t, output, `isolator_http_request_duration_seconds_count`,
			`path="/v1/isolation/status"`, `3`)
	})

	t.Run("Success_UnmatchedRouteCollapsed", func(t *testing.T) {
		router, provider := newMeteredRouter(t)

		assert.Equal(t, http.StatusNotFound, request(router, http.MethodGet, "/v1/isolation/a"))
		assert.Equal(t, http.StatusNotFound, request(router, http.MethodGet, "/v1/isolation/b"))

		assertBizMetricLine(t, scrape(t, provider), `isolator_http_requests_total`,
			`path="unknown".*status_code="404"`, `2`)
	})

	t.Run("Success_SkipsHealthRoutes", func(t *testing.T) {
		router, provider := newMeteredRouter(t, "/health")

		assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/health"))
		assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/v1/isolation/status"))

		output := scrape(t, provider)
		assert.NotContains(t, output, `path="/health"`)
		assert.Contains(t, output, `path="/v1/isolation/status"`)
	})
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "RoutePattern", input: "/v1/isolation/containers/:id/new-circuit", expected: "/v1/isolation/containers/:id/new-circuit"},
		{name: "Unmatched", input: "", expected: "unknown"},
		{name: "Root", input: "/", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routeLabel(tt.input))
		})
	}
}
