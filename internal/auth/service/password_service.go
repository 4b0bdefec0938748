package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/isolator/internal/errors"
)

// generatedPasswordBytes is the entropy of generated control passwords.
const generatedPasswordBytes = 32

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// GeneratePassword creates a 32-byte random password, base64url encoded, and hashes it.
func (s *passwordService) GeneratePassword() (plainPassword string, hashedPassword string, err error) {
	randomBytes := make([]byte, generatedPasswordBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate control password")
	}

	plainPassword = base64.RawURLEncoding.EncodeToString(randomBytes)

	hashedPassword, err = s.HashPassword(plainPassword)
	if err != nil {
		return "", "", err
	}

	return plainPassword, hashedPassword, nil
}

// HashPassword hashes a plain control password using Argon2id.
func (s *passwordService) HashPassword(plainPassword string) (string, error) {
	hashedPassword, err := s.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash control password")
	}
	return hashedPassword, nil
}

// ComparePassword verifies plainPassword against an Argon2id hash. Malformed hashes never match.
func (s *passwordService) ComparePassword(plainPassword string, hashedPassword string) bool {
	ok, err := s.hasher.Verify([]byte(plainPassword), hashedPassword)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordService creates a PasswordService using the Moderate Argon2id policy.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passwordService{
		hasher: hasher,
	}
}
