// Package service provides the control password services guarding the isolation control API.
package service

// PasswordService generates, hashes and verifies control passwords.
type PasswordService interface {
	// GeneratePassword creates a random control password and its Argon2id hash.
	// The plain password is shown once to the operator and never stored.
	GeneratePassword() (plainPassword string, hashedPassword string, err error)

	// HashPassword hashes an operator-chosen control password.
	HashPassword(plainPassword string) (hashedPassword string, err error)

	// ComparePassword reports whether plainPassword matches hashedPassword in constant time.
	ComparePassword(plainPassword string, hashedPassword string) bool
}
