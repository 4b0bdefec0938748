package domain

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Token is an opaque random value rendered as lowercase hex. Tokens only support equality.
type Token string

// String returns the hex form of the token.
func (t Token) String() string {
	return string(t)
}

// Credentials is the SOCKS username/password pair presented to the proxy. The proxy maps
// distinct pairs to distinct circuits.
type Credentials struct {
	// Username encodes "<domain>:<container>" and carries no secret.
	Username string
	// Password is the domain token followed by the container token.
	Password string
}

// Fingerprint returns a short non-secret tag derived from the password, suitable for logs and
// for telling circuits apart in a UI without exposing the password itself.
func (c Credentials) Fingerprint() string {
	if c.Password == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(c.Password))
	return hex.EncodeToString(sum[:8])
}

// IsZero reports whether no credentials are set.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Password == ""
}
