package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware lets a browser UI (a web page or an extension such as a
// moz-extension:// origin) drive the control API from the browser being isolated. It returns
// nil when CORS is disabled or no usable origin is configured.
//
// The control password travels in the Authorization header, so cookies are never allowed.
// Preflights answer Private Network Access checks because the API listens on loopback.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured, CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowOrigins:           origins,
		AllowBrowserExtensions: true,
		AllowPrivateNetwork:    true,
		AllowMethods:           []string{http.MethodGet, http.MethodPost},
		AllowHeaders:           []string{"Authorization", "Content-Type"},
		ExposeHeaders:          []string{"X-Request-Id"},
		AllowCredentials:       false,
		MaxAge:                 12 * time.Hour,
	}
	if err := config.Validate(); err != nil {
		logger.Warn("CORS origins rejected, CORS will not be applied",
			slog.Any("origins", origins),
			slog.Any("error", err))
		return nil
	}

	logger.Info("CORS enabled", slog.Any("origins", origins))
	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list. Entries are trimmed and a trailing
// slash is dropped, since browsers never send one in the Origin header.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSuffix(strings.TrimSpace(part), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
