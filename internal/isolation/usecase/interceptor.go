package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/isolator/internal/errors"
	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/metrics"
)

// OnRequest injects the isolation credentials for (firstParty, containerID) into a copy of
// original. It never blocks a connection: when isolation is disabled, the proxy cannot carry
// credentials, or composition fails, original is returned unchanged.
func (e *Engine) OnRequest(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
	original domain.ProxyDescriptor,
) (proxy domain.ProxyDescriptor, outcome domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("isolation interceptor recovered from panic",
				slog.Any("panic", r),
				slog.String("domain", firstParty),
				slog.String("container_id", containerID.String()))
			proxy, outcome = original, domain.OutcomePassthroughError
		}
	}()

	creds, outcome, rotated, err := e.isolate(firstParty, containerID, original.Type)
	if rotated {
		e.metrics.RecordRotation(ctx, metrics.RotationScopeCatchAll, metrics.RotationTriggerStale)
		e.logger.Info("catch-all identity rotated", slog.Duration("max_age", e.catchAll.maxAge))
	}
	if err != nil {
		e.logger.Warn("isolation skipped, passing proxy through",
			slog.String("domain", firstParty),
			slog.String("container_id", containerID.String()),
			slog.Any("error", err))
		return original, domain.OutcomePassthroughError
	}
	if !outcome.Isolated() {
		return original, outcome
	}

	e.logger.Debug("request isolated",
		slog.String("username", creds.Username),
		slog.String("circuit", creds.Fingerprint()))

	return original.WithCredentials(creds), outcome
}

// Intercept attributes src and delegates to OnRequest. Attribution failures are logged at
// debug level and routed without isolation changes.
func (e *Engine) Intercept(
	ctx context.Context,
	src RequestSource,
	original domain.ProxyDescriptor,
) (proxy domain.ProxyDescriptor, outcome domain.Outcome) {
	if !e.Enabled(ctx) {
		return original, domain.OutcomePassthroughDisabled
	}

	firstParty, containerID, err := attribute(src)
	if err != nil {
		e.logger.Debug("request attribution failed", slog.Any("error", err))
		return original, domain.OutcomePassthroughError
	}

	return e.OnRequest(ctx, firstParty, containerID, original)
}

// isolate runs the whole decision under the engine lock so that a catch-all rotation can
// never interleave with a compose.
func (e *Engine) isolate(
	firstParty string,
	containerID domain.ContainerID,
	proxyType domain.ProxyType,
) (creds domain.Credentials, outcome domain.Outcome, rotated bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return domain.Credentials{}, domain.OutcomePassthroughDisabled, false, nil
	}
	if !proxyType.SupportsAuth() {
		return domain.Credentials{}, domain.OutcomePassthroughUnsupported, false, nil
	}

	normalized := domain.NormalizeDomain(firstParty)
	if normalized == domain.CatchAllDomain {
		rotated, err = e.catchAll.check(e.now())
		if err != nil {
			return domain.Credentials{}, domain.OutcomePassthroughError, false, err
		}
	}

	creds, err = e.composer.compose(normalized, containerID)
	if err != nil {
		return domain.Credentials{}, domain.OutcomePassthroughError, rotated, err
	}
	return creds, domain.OutcomeIsolated, rotated, nil
}

// attribute reads the request attribution, converting panics from the source into errors.
func attribute(src RequestSource) (firstParty string, containerID domain.ContainerID, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(domain.ErrAttributionFailed, fmt.Sprint(r))
		}
	}()

	if src == nil {
		return "", 0, domain.ErrAttributionFailed
	}
	firstParty, err = src.FirstPartyDomain()
	if err != nil {
		return "", 0, fmt.Errorf("%w: domain: %w", domain.ErrAttributionFailed, err)
	}
	containerID, err = src.ContainerID()
	if err != nil {
		return "", 0, fmt.Errorf("%w: container: %w", domain.ErrAttributionFailed, err)
	}
	return firstParty, containerID, nil
}
