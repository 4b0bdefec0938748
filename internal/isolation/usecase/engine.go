package usecase

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/service"
	"github.com/allisson/isolator/internal/metrics"
)

var (
	_ Interceptor    = (*Engine)(nil)
	_ ControlSurface = (*Engine)(nil)
)

// Config holds the engine settings consumed once at startup.
type Config struct {
	// Enabled is the initial isolation state.
	Enabled bool
	// CatchAllMaxAge defaults to domain.DefaultCatchAllMaxAge when zero.
	CatchAllMaxAge time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
	// Metrics receives identity rotations. Defaults to a no-op recorder.
	Metrics metrics.BusinessMetrics
}

// Engine owns all isolation state for one browsing session and implements both
// Interceptor and ControlSurface. A single mutex guards the key store, the catch-all clock,
// the enabled flag and the session id, so the network stack may call it from many goroutines.
type Engine struct {
	mu        sync.Mutex
	enabled   bool
	sessionID uuid.UUID
	store     *keyStore
	composer  *credentialComposer
	catchAll  *catchAllPolicy
	now       func() time.Time
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
}

// NewEngine creates an empty engine.
func NewEngine(cfg Config, nonces service.NonceGenerator, logger *slog.Logger) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	maxAge := cfg.CatchAllMaxAge
	if maxAge <= 0 {
		maxAge = domain.DefaultCatchAllMaxAge
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.NewNoOpBusinessMetrics()
	}

	store := newKeyStore(nonces)
	return &Engine{
		enabled:   cfg.Enabled,
		sessionID: newSessionID(),
		store:     store,
		composer:  newCredentialComposer(store),
		catchAll:  newCatchAllPolicy(store, maxAge, now()),
		now:       now,
		metrics:   m,
		logger:    logger,
	}
}

func newSessionID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
