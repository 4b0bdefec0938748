// Package domain defines the core isolation models: tokens, containers, SOCKS credentials and
// proxy descriptors. Isolation state is in-memory only and lives for one browsing session.
package domain

import (
	"strconv"
	"time"
)

const (
	// CatchAllDomain is the normalized key for requests without an attributable first-party domain.
	// It can never collide with a registrable domain.
	CatchAllDomain = "--unknown--"

	// DefaultCatchAllMaxAge is how long the catch-all identity may be reused before it is rotated.
	DefaultCatchAllMaxAge = 10 * time.Minute

	// TokenBytes is the amount of entropy in a Token (128 bits).
	TokenBytes = 16

	// MaxDomainLength bounds domains accepted through the HTTP API.
	MaxDomainLength = 253
)

// ContainerID identifies an isolated storage/identity partition ("container").
type ContainerID uint32

// DefaultContainer is the container used when a request carries no explicit partition.
const DefaultContainer ContainerID = 0

// String returns the decimal representation of the container ID.
func (c ContainerID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ParseContainerID parses a decimal container ID.
func ParseContainerID(s string) (ContainerID, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrInvalidContainerID
	}
	return ContainerID(v), nil
}

// NormalizeDomain maps the empty domain to CatchAllDomain. Every other value is an opaque key
// and is returned unchanged.
func NormalizeDomain(domain string) string {
	if domain == "" {
		return CatchAllDomain
	}
	return domain
}

// IsCatchAll reports whether domain routes to the catch-all identity.
func IsCatchAll(domain string) bool {
	return NormalizeDomain(domain) == CatchAllDomain
}
