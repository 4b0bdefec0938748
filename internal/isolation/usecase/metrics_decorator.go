package usecase

import (
	"context"
	"time"

	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/metrics"
)

const metricsDomain = "isolation"

// interceptorWithMetrics decorates Interceptor with metrics instrumentation.
type interceptorWithMetrics struct {
	next    Interceptor
	metrics metrics.BusinessMetrics
}

// NewInterceptorWithMetrics wraps an Interceptor with metrics recording. The outcome of each
// request is used as the status label.
func NewInterceptorWithMetrics(interceptor Interceptor, m metrics.BusinessMetrics) Interceptor {
	return &interceptorWithMetrics{
		next:    interceptor,
		metrics: m,
	}
}

// OnRequest records metrics for request interception.
func (i *interceptorWithMetrics) OnRequest(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
	original domain.ProxyDescriptor,
) (domain.ProxyDescriptor, domain.Outcome) {
	start := time.Now()
	proxy, outcome := i.next.OnRequest(ctx, firstParty, containerID, original)

	i.metrics.RecordOperation(ctx, metricsDomain, "intercept", outcome.String())
	i.metrics.RecordDuration(ctx, metricsDomain, "intercept", time.Since(start), outcome.String())

	return proxy, outcome
}

// Intercept records metrics for attributed request interception.
func (i *interceptorWithMetrics) Intercept(
	ctx context.Context,
	src RequestSource,
	original domain.ProxyDescriptor,
) (domain.ProxyDescriptor, domain.Outcome) {
	start := time.Now()
	proxy, outcome := i.next.Intercept(ctx, src, original)

	i.metrics.RecordOperation(ctx, metricsDomain, "intercept", outcome.String())
	i.metrics.RecordDuration(ctx, metricsDomain, "intercept", time.Since(start), outcome.String())

	return proxy, outcome
}

// controlSurfaceWithMetrics decorates ControlSurface with metrics instrumentation.
type controlSurfaceWithMetrics struct {
	next    ControlSurface
	metrics metrics.BusinessMetrics
}

// NewControlSurfaceWithMetrics wraps a ControlSurface with metrics recording.
func NewControlSurfaceWithMetrics(control ControlSurface, m metrics.BusinessMetrics) ControlSurface {
	return &controlSurfaceWithMetrics{
		next:    control,
		metrics: m,
	}
}

// Enable records metrics for enabling isolation.
func (c *controlSurfaceWithMetrics) Enable(ctx context.Context) {
	start := time.Now()
	c.next.Enable(ctx)
	c.record(ctx, "enable", start, "success")
}

// Disable records metrics for disabling isolation.
func (c *controlSurfaceWithMetrics) Disable(ctx context.Context) {
	start := time.Now()
	c.next.Disable(ctx)
	c.record(ctx, "disable", start, "success")
}

// Enabled is not instrumented.
func (c *controlSurfaceWithMetrics) Enabled(ctx context.Context) bool {
	return c.next.Enabled(ctx)
}

// NewCircuitForDomain records metrics for domain rotation.
func (c *controlSurfaceWithMetrics) NewCircuitForDomain(ctx context.Context, firstParty string) error {
	start := time.Now()
	err := c.next.NewCircuitForDomain(ctx, firstParty)
	c.record(ctx, "new_circuit_domain", start, statusOf(err))
	return err
}

// NewCircuitForContainer records metrics for container rotation.
func (c *controlSurfaceWithMetrics) NewCircuitForContainer(
	ctx context.Context,
	containerID domain.ContainerID,
) error {
	start := time.Now()
	err := c.next.NewCircuitForContainer(ctx, containerID)
	c.record(ctx, "new_circuit_container", start, statusOf(err))
	return err
}

// ClearIsolation records metrics for clearing all isolation state.
func (c *controlSurfaceWithMetrics) ClearIsolation(ctx context.Context) error {
	start := time.Now()
	err := c.next.ClearIsolation(ctx)
	c.record(ctx, "clear", start, statusOf(err))
	return err
}

// LookupCredentials records metrics for read-only lookups, labelled hit or miss.
func (c *controlSurfaceWithMetrics) LookupCredentials(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
) (domain.Credentials, bool) {
	start := time.Now()
	creds, ok := c.next.LookupCredentials(ctx, firstParty, containerID)

	status := "hit"
	if !ok {
		status = "miss"
	}
	c.record(ctx, "lookup_credentials", start, status)

	return creds, ok
}

// Resolve records metrics for read-only resolution, labelled with the outcome or "pending".
func (c *controlSurfaceWithMetrics) Resolve(
	ctx context.Context,
	firstParty string,
	containerID domain.ContainerID,
	original domain.ProxyDescriptor,
) domain.Resolution {
	start := time.Now()
	res := c.next.Resolve(ctx, firstParty, containerID, original)

	status := res.Outcome.String()
	if res.Pending {
		status = "pending"
	}
	c.record(ctx, "resolve", start, status)

	return res
}

// Status is not instrumented.
func (c *controlSurfaceWithMetrics) Status(ctx context.Context) domain.Status {
	return c.next.Status(ctx)
}

func (c *controlSurfaceWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	c.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	c.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
