// Package usecase implements the isolation engine: the key store, credential composition,
// catch-all rotation, the per-request interceptor and the control surface exposed to the rest
// of the browser.
package usecase

import (
	"context"

	"github.com/allisson/isolator/internal/isolation/domain"
)

// RequestSource is the network-stack view of one outbound connection. Either method may fail
// when the underlying request cannot be introspected.
type RequestSource interface {
	FirstPartyDomain() (string, error)
	ContainerID() (domain.ContainerID, error)
}

// Interceptor is invoked by the network stack for every outbound connection eligible for
// proxying. It never fails: any problem degrades to returning the original descriptor.
type Interceptor interface {
	// OnRequest returns the descriptor to use for a connection attributed to firstParty and
	// containerID, together with what was done to it.
	OnRequest(
		ctx context.Context,
		firstParty string,
		containerID domain.ContainerID,
		original domain.ProxyDescriptor,
	) (domain.ProxyDescriptor, domain.Outcome)

	// Intercept attributes src first and then behaves like OnRequest. Attribution failures
	// pass the original descriptor through.
	Intercept(
		ctx context.Context,
		src RequestSource,
		original domain.ProxyDescriptor,
	) (domain.ProxyDescriptor, domain.Outcome)
}

// ControlSurface is the set of operations the browser UI and other subsystems may call.
type ControlSurface interface {
	// Enable turns credential injection on. Idempotent.
	Enable(ctx context.Context)

	// Disable turns the interceptor into a pass-through. Idempotent.
	Disable(ctx context.Context)

	// Enabled reports whether credential injection is on.
	Enabled(ctx context.Context) bool

	// NewCircuitForDomain replaces the token of firstParty. The empty domain targets the
	// catch-all identity and restarts its max-age clock.
	NewCircuitForDomain(ctx context.Context, firstParty string) error

	// NewCircuitForContainer replaces the token of containerID.
	NewCircuitForContainer(ctx context.Context, containerID domain.ContainerID) error

	// ClearIsolation discards every token at once ("New Identity").
	ClearIsolation(ctx context.Context) error

	// LookupCredentials returns the credentials currently used for the pair without creating
	// any missing token. ok is false if either axis has no token yet.
	LookupCredentials(
		ctx context.Context,
		firstParty string,
		containerID domain.ContainerID,
	) (creds domain.Credentials, ok bool)

	// Resolve reports what the interceptor would do with a request for the pair. Like
	// LookupCredentials it never creates tokens and never rotates the catch-all identity.
	Resolve(
		ctx context.Context,
		firstParty string,
		containerID domain.ContainerID,
		original domain.ProxyDescriptor,
	) domain.Resolution

	// Status returns a read-only snapshot of the engine.
	Status(ctx context.Context) domain.Status
}
