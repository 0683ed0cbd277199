// Package hash wraps the bcrypt credential hashing used for stored passwords.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches bcrypt's recommended work factor for interactive
// logins. Tunable via configuration, but must stay high enough to resist
// offline brute force.
const DefaultCost = 10

// BcryptHasher hashes and verifies passwords with a fixed cost factor.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the salted bcrypt hash of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hashed. It never returns an
// error; any mismatch or malformed hash is simply false.
func (h *BcryptHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
