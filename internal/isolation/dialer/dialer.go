// Package dialer connects the isolation engine to Go's network stack. Every connection is
// attributed from its context, run through the interceptor and dialed through the resulting
// SOCKS5 descriptor, so Tor sees a distinct username/password per (domain, container) pair.
package dialer

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"github.com/allisson/isolator/internal/errors"
	"github.com/allisson/isolator/internal/isolation/domain"
	"github.com/allisson/isolator/internal/isolation/usecase"
	"github.com/allisson/isolator/internal/metrics"
)

const metricsDomain = "dialer"

// ErrUnsupportedProxy indicates a descriptor type the dialer cannot connect through.
var ErrUnsupportedProxy = errors.Wrap(errors.ErrInvalidInput, "unsupported proxy type")

// Dialer dials outbound connections through the upstream proxy with per-request credentials.
type Dialer struct {
	interceptor usecase.Interceptor
	upstream    domain.ProxyDescriptor
	forward     *net.Dialer
	metrics     metrics.BusinessMetrics
	logger      *slog.Logger
}

// NewDialer creates a Dialer for the given upstream proxy. A nil m disables metrics.
func NewDialer(
	interceptor usecase.Interceptor,
	upstream domain.ProxyDescriptor,
	m metrics.BusinessMetrics,
	logger *slog.Logger,
) *Dialer {
	if m == nil {
		m = metrics.NewNoOpBusinessMetrics()
	}
	return &Dialer{
		interceptor: interceptor,
		upstream:    upstream,
		forward: &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		},
		metrics: m,
		logger:  logger,
	}
}

// DialContext resolves the descriptor for the attribution carried by ctx and connects to addr
// through it.
func (d *Dialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	start := time.Now()

	desc, outcome := d.interceptor.Intercept(ctx, contextSource{ctx: ctx}, d.upstream)
	conn, err := d.dial(ctx, desc, network, addr)

	status := "success"
	if err != nil {
		status = "error"
	}
	d.metrics.RecordOperation(ctx, metricsDomain, "dial", status)
	d.metrics.RecordDuration(ctx, metricsDomain, "dial", time.Since(start), status)

	if err != nil {
		d.logger.Debug("dial failed",
			slog.String("proxy", desc.Address()),
			slog.String("outcome", outcome.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	d.logger.Debug("dialed",
		slog.String("proxy", desc.Address()),
		slog.String("outcome", outcome.String()),
		slog.String("credentials", desc.Credentials().Fingerprint()),
	)
	return conn, nil
}

func (d *Dialer) dial(ctx context.Context, desc domain.ProxyDescriptor, network, addr string) (net.Conn, error) {
	switch desc.Type {
	case domain.ProxyTypeDirect:
		return d.forward.DialContext(ctx, network, addr)
	case domain.ProxyTypeSOCKS5:
		var auth *proxy.Auth
		if desc.Username != "" || desc.Password != "" {
			auth = &proxy.Auth{User: desc.Username, Password: desc.Password}
		}
		socks, err := proxy.SOCKS5("tcp", desc.Address(), auth, d.forward)
		if err != nil {
			return nil, err
		}
		if cd, ok := socks.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return socks.Dial(network, addr)
	default:
		return nil, errors.Wrap(ErrUnsupportedProxy, desc.Type.String())
	}
}

// Transport returns an http.Transport that dials through d. Keep-alives are disabled because a
// pooled connection keeps the credentials of the request that opened it.
func (d *Dialer) Transport() *http.Transport {
	return &http.Transport{
		DialContext:           d.DialContext,
		DisableKeepAlives:     true,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
