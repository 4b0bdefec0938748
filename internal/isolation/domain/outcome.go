package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome classifies what the interceptor did with a request.
type Outcome string

const (
	// OutcomeIsolated means credentials were injected.
	OutcomeIsolated Outcome = "isolated"
	// OutcomePassthroughDisabled means isolation is administratively disabled.
	OutcomePassthroughDisabled Outcome = "passthrough_disabled"
	// OutcomePassthroughUnsupported means the proxy type cannot carry isolation credentials.
	OutcomePassthroughUnsupported Outcome = "passthrough_unsupported"
	// OutcomePassthroughError means attribution or composition failed and the request was
	// routed without isolation changes.
	OutcomePassthroughError Outcome = "passthrough_error"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Isolated reports whether credentials were injected.
func (o Outcome) Isolated() bool {
	return o == OutcomeIsolated
}

// Status is a read-only snapshot of the isolation engine.
type Status struct {
	Enabled        bool
	SessionID      uuid.UUID
	Domains        int
	Containers     int
	CatchAllAge    time.Duration
	CatchAllMaxAge time.Duration
}

// Resolution is the read-only answer to "which proxy would this request use".
type Resolution struct {
	Proxy   ProxyDescriptor
	Outcome Outcome
	// Pending means the request would be isolated but its credentials do not exist yet. The
	// first real connection for the pair creates them.
	Pending bool
	// RotationDue means the catch-all identity is stale and the next unattributed connection
	// replaces it.
	RotationDue bool
}
