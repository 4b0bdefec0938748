// Package service provides the nonce source backing isolation tokens.
package service

import (
	"github.com/allisson/isolator/internal/isolation/domain"
)

// NonceGenerator produces fixed-length random tokens. Implementations must use a
// cryptographically secure source; uniqueness is probabilistic and not tracked.
type NonceGenerator interface {
	Generate() (domain.Token, error)
}
