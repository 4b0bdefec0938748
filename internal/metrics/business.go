package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Rotation scopes and triggers used as labels of the identity rotation counter.
const (
	RotationScopeDomain    = "domain"
	RotationScopeContainer = "container"
	RotationScopeCatchAll  = "catch_all"
	RotationScopeAll       = "all"

	RotationTriggerExplicit = "explicit"
	RotationTriggerStale    = "stale"
)

// Interception runs in microseconds; dials and control calls take up to seconds.
var durationBuckets = []float64{
	0.00001, 0.000025, 0.00005, 0.0001, 0.00025, 0.0005,
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
	0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// IsolationSnapshot is the engine state sampled for the key store gauges.
type IsolationSnapshot struct {
	Enabled     bool
	Domains     int
	Containers  int
	CatchAllAge time.Duration
}

// BusinessMetrics records what the isolation engine and the isolating dialer do.
type BusinessMetrics interface {
	// RecordOperation counts one operation.
	// Domain examples: "isolation", "dialer"
	// Operation examples: "intercept", "new_circuit_domain", "resolve", "dial"
	// Status examples: "isolated", "passthrough_disabled", "success", "error"
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records how long an operation took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordRotation counts one identity rotation. scope is one of the RotationScope constants
	// and trigger one of the RotationTrigger constants.
	RecordRotation(ctx context.Context, scope, trigger string)

	// ObserveIsolation samples snapshot on every collection to feed the key store gauges.
	ObserveIsolation(snapshot func(ctx context.Context) IsolationSnapshot) error
}

type businessMetrics struct {
	meter            metric.Meter
	namespace        string
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	rotationCounter  metric.Int64Counter
}

// NewBusinessMetrics creates the isolator instruments on meterProvider. Every instrument name
// is prefixed with namespace (e.g. "isolator_operations_total").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Isolation engine and dialer operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Duration of isolation engine and dialer operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	rotationCounter, err := meter.Int64Counter(
		namespace+"_identity_rotations_total",
		metric.WithDescription("Isolation token rotations by scope and trigger"),
		metric.WithUnit("{rotation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rotation counter: %w", err)
	}

	return &businessMetrics{
		meter:            meter,
		namespace:        namespace,
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		rotationCounter:  rotationCounter,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1, metric.WithAttributes(operationAttrs(domain, operation, status)...))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(operationAttrs(domain, operation, status)...))
}

func (b *businessMetrics) RecordRotation(ctx context.Context, scope, trigger string) {
	b.rotationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("trigger", trigger),
	))
}

// ObserveIsolation registers the key store gauges. snapshot is called from the collector
// goroutine and must be safe for concurrent use.
func (b *businessMetrics) ObserveIsolation(snapshot func(ctx context.Context) IsolationSnapshot) error {
	domains, err := b.meter.Int64ObservableGauge(
		b.namespace+"_isolation_domains",
		metric.WithDescription("First-party domains holding an isolation token"),
		metric.WithUnit("{domain}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create domains gauge: %w", err)
	}

	containers, err := b.meter.Int64ObservableGauge(
		b.namespace+"_isolation_containers",
		metric.WithDescription("Containers holding an isolation token"),
		metric.WithUnit("{container}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create containers gauge: %w", err)
	}

	enabled, err := b.meter.Int64ObservableGauge(
		b.namespace+"_isolation_enabled",
		metric.WithDescription("1 when credential injection is on, 0 when requests pass through"),
	)
	if err != nil {
		return fmt.Errorf("failed to create enabled gauge: %w", err)
	}

	catchAllAge, err := b.meter.Float64ObservableGauge(
		b.namespace+"_catch_all_age_seconds",
		metric.WithDescription("Age of the catch-all identity"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create catch-all age gauge: %w", err)
	}

	_, err = b.meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		s := snapshot(ctx)
		o.ObserveInt64(domains, int64(s.Domains))
		o.ObserveInt64(containers, int64(s.Containers))
		o.ObserveInt64(enabled, boolToInt64(s.Enabled))
		o.ObserveFloat64(catchAllAge, s.CatchAllAge.Seconds())
		return nil
	}, domains, containers, enabled, catchAllAge)
	if err != nil {
		return fmt.Errorf("failed to register isolation callback: %w", err)
	}
	return nil
}

func operationAttrs(domain, operation, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	}
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// NoOpBusinessMetrics is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordRotation(ctx context.Context, scope, trigger string) {}

func (n *NoOpBusinessMetrics) ObserveIsolation(snapshot func(ctx context.Context) IsolationSnapshot) error {
	return nil
}
