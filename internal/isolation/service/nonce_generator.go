package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/allisson/isolator/internal/isolation/domain"
)

type nonceGenerator struct {
	source io.Reader
}

// NewNonceGenerator creates a NonceGenerator reading domain.TokenBytes from crypto/rand.
func NewNonceGenerator() NonceGenerator {
	return &nonceGenerator{source: rand.Reader}
}

// NewNonceGeneratorWithSource creates a NonceGenerator over a custom entropy source.
// The source must be cryptographically secure outside of tests.
func NewNonceGeneratorWithSource(source io.Reader) NonceGenerator {
	return &nonceGenerator{source: source}
}

// Generate returns a new lowercase hex token with 128 bits of entropy.
func (g *nonceGenerator) Generate() (domain.Token, error) {
	buf := make([]byte, domain.TokenBytes)
	if _, err := io.ReadFull(g.source, buf); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNonceGeneration, err)
	}
	return domain.Token(hex.EncodeToString(buf)), nil
}
