package dialer

import (
	"context"

	"github.com/allisson/isolator/internal/isolation/domain"
)

type attributionKey struct{}

// Attribution identifies the first-party domain and container a connection is made for.
type Attribution struct {
	FirstParty  string
	ContainerID domain.ContainerID
}

// WithAttribution returns a copy of ctx carrying the attribution used by Dialer.DialContext.
func WithAttribution(ctx context.Context, firstParty string, containerID domain.ContainerID) context.Context {
	return context.WithValue(ctx, attributionKey{}, Attribution{
		FirstParty:  firstParty,
		ContainerID: containerID,
	})
}

// AttributionFromContext returns the attribution stored in ctx, if any.
func AttributionFromContext(ctx context.Context) (Attribution, bool) {
	a, ok := ctx.Value(attributionKey{}).(Attribution)
	return a, ok
}

// contextSource adapts a context to usecase.RequestSource. Unattributed connections map to the
// catch-all identity in the default container.
type contextSource struct {
	ctx context.Context
}

func (s contextSource) FirstPartyDomain() (string, error) {
	a, _ := AttributionFromContext(s.ctx)
	return a.FirstParty, nil
}

func (s contextSource) ContainerID() (domain.ContainerID, error) {
	a, _ := AttributionFromContext(s.ctx)
	return a.ContainerID, nil
}
