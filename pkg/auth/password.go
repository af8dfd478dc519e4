// Package auth holds the credential primitives: bcrypt password hashing and
// HS256 bearer tokens.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPasswordWithCost returns a bcrypt hash of the plain-text password.
// Costs outside bcrypt's range fall back to the default.
func HashPasswordWithCost(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
