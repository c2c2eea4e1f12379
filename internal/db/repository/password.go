package repository

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"identity-console/internal/domain"
)

// DefaultMinPasswordLength is the shortest password the store accepts.
const DefaultMinPasswordLength = 6

// PasswordHasher hashes and verifies account credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher hashes passwords with bcrypt and enforces a minimum length.
type BcryptHasher struct {
	Cost      int
	MinLength int
}

// NewBcryptHasher returns a hasher with the given cost; out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost, MinLength: DefaultMinPasswordLength}
}

// Hash validates password against the policy and returns its bcrypt hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) < h.MinLength {
		return "", domain.ErrValidation("Passwords must be at least %d characters.", h.MinLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrValidation("Passwords must be at most 72 bytes.")
	}
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash.
func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
