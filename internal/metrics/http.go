package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests that hit no route.
const unmatchedRoute = "unknown"

// HTTPMetricsMiddleware counts and times control API requests by method, route pattern and
// status code. Requests to skipRoutes (liveness and readiness checks) are not recorded. If the
// instruments cannot be created the middleware only calls the next handler.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string, skipRoutes ...string) gin.HandlerFunc {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		namespace+"_http_requests_total",
		metric.WithDescription("Control API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	durationHisto, err := meter.Float64Histogram(
		namespace+"_http_request_duration_seconds",
		metric.WithDescription("Control API request duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return passThrough
	}

	skip := make(map[string]struct{}, len(skipRoutes))
	for _, route := range skipRoutes {
		skip[route] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := routeLabel(c.FullPath())
		if _, ok := skip[route]; ok {
			return
		}

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		requestCounter.Add(c.Request.Context(), 1, attrs)
		durationHisto.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
	}
}

// routeLabel keeps the label set bounded: container ids stay as ":id" and unmatched paths
// collapse into one value.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}

func passThrough(c *gin.Context) {
	c.Next()
}
