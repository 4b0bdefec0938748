// Package http provides HTTP middleware guarding the isolation control routes.
package http

import (
	"crypto/subtle"
	"log/slog"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/blake2b"

	authService "github.com/allisson/isolator/internal/auth/service"
	apperrors "github.com/allisson/isolator/internal/errors"
	"github.com/allisson/isolator/internal/httputil"
)

// acceptedPasswordCache remembers the digest of the last password that verified against the
// configured hash so Argon2id runs once per distinct password instead of once per request.
type acceptedPasswordCache struct {
	mu     sync.RWMutex
	digest []byte
}

func (a *acceptedPasswordCache) matches(digest []byte) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.digest != nil && subtle.ConstantTimeCompare(a.digest, digest) == 1
}

func (a *acceptedPasswordCache) store(digest []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.digest = digest
}

// ControlAuthMiddleware requires "Authorization: Bearer <control password>" on the routes it
// guards. When hashedPassword is empty the control API is unauthenticated and every request
// passes.
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Password does not match the configured hash → 401 Unauthorized
func ControlAuthMiddleware(
	passwordService authService.PasswordService,
	hashedPassword string,
	logger *slog.Logger,
) gin.HandlerFunc {
	if hashedPassword == "" {
		logger.Warn("control password not configured, control API is unauthenticated")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	cache := &acceptedPasswordCache{}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainPassword := authHeader[len(bearerPrefix):]
		if plainPassword == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		digest := blake2b.Sum256([]byte(plainPassword))
		if !cache.matches(digest[:]) {
			if !passwordService.ComparePassword(plainPassword, hashedPassword) {
				logger.Debug("authentication failed: control password mismatch",
					slog.String("client_ip", c.ClientIP()))
				httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
				c.Abort()
				return
			}
			cache.store(digest[:])
		}

		c.Next()
	}
}
