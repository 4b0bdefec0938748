package usecase

import (
	"context"
	"log/slog"

	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/metrics"
)

// Enable turns credential injection on.
func (e *Engine) Enable(ctx context.Context) {
	e.setEnabled(true)
}

// Disable turns the interceptor into a pass-through.
func (e *Engine) Disable(ctx context.Context) {
	e.setEnabled(false)
}

func (e *Engine) setEnabled(enabled bool) {
	e.mu.Lock()
	changed := e.enabled != enabled
	e.enabled = enabled
	e.mu.Unlock()

	if changed {
		e.logger.Info("domain isolation state changed", slog.Bool("enabled", enabled))
	}
}

// Enabled reports whether credential injection is on.
func (e *Engine) Enabled(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// NewCircuitForDomain replaces the token of firstParty so every container gets a new circuit
// for it. Targeting the catch-all key also restarts the catch-all clock.
func (e *Engine) NewCircuitForDomain(ctx context.Context, firstParty string) error {
	normalized := domain.NormalizeDomain(firstParty)

	e.mu.Lock()
	err := e.store.rotateDomain(normalized)
	if err == nil && normalized == domain.CatchAllDomain {
		e.catchAll.reset(e.now())
	}
	e.mu.Unlock()

	if err != nil {
		return err
	}
	scope := metrics.RotationScopeDomain
	if normalized == domain.CatchAllDomain {
		scope = metrics.RotationScopeCatchAll
	}
	e.metrics.RecordRotation(ctx, scope, metrics.RotationTriggerExplicit)
	e.logger.Info("new circuit for domain", slog.String("domain", normalized))
	return nil
}

// NewCircuitForContainer replaces the token of containerID.
func (e *Engine) NewCircuitForContainer(ctx context.Context, containerID domain.ContainerID) error {
	e.mu.Lock()
	err := e.store.rotateContainer(containerID)
	e.mu.Unlock()

	if err != nil {
		return err
	}
	e.metrics.RecordRotation(ctx, metrics.RotationScopeContainer, metrics.RotationTriggerExplicit)
	e.logger.Info("new circuit for container", slog.String("container_id", containerID.String()))
	return nil
}

// ClearIsolation discards every token, restarts the catch-all clock and starts a new session.
func (e *Engine) ClearIsolation(ctx context.Context) error {
	e.mu.Lock()
	e.store.clearAll()
	e.catchAll.reset(e.now())
	e.sessionID = newSessionID()
	sessionID := e.sessionID
	e.mu.Unlock()

	e.metrics.RecordRotation(ctx, metrics.RotationScopeAll, metrics.RotationTriggerExplicit)
	e.logger.Info("isolation cleared", slog.String("session_id", sessionID.String()))
	return nil
}

// LookupCredentials returns the current credentials for the pair without creating tokens.
func (e *Engine) LookupCredentials(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
) (domain.Credentials, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.composer.lookup(firstParty, containerID)
}

// Resolve reports what OnRequest would do for the pair without creating tokens or rotating the
// catch-all identity. A stale catch-all identity, or a pair with no token yet, resolves to
// a pending isolation without credentials.
func (e *Engine) Resolve(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
	original domain.ProxyDescriptor,
) domain.Resolution {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return domain.Resolution{Proxy: original, Outcome: domain.OutcomePassthroughDisabled}
	}
	if !original.Type.SupportsAuth() {
		return domain.Resolution{Proxy: original, Outcome: domain.OutcomePassthroughUnsupported}
	}

	pending := domain.Resolution{Proxy: original, Outcome: domain.OutcomeIsolated, Pending: true}
	normalized := domain.NormalizeDomain(firstParty)
	if normalized == domain.CatchAllDomain && e.catchAll.stale(e.now()) {
		pending.RotationDue = true
		return pending
	}

	creds, ok := e.composer.lookup(normalized, containerID)
	if !ok {
		return pending
	}
	return domain.Resolution{Proxy: original.WithCredentials(creds), Outcome: domain.OutcomeIsolated}
}

// Status returns a read-only snapshot of the engine.
func (e *Engine) Status(ctx context.Context) domain.Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	domains, containers := e.store.size()
	return domain.Status{
		Enabled:        e.enabled,
		SessionID:      e.sessionID,
		Domains:        domains,
		Containers:     containers,
		CatchAllAge:    e.catchAll.age(e.now()),
		CatchAllMaxAge: e.catchAll.maxAge,
	}
}
