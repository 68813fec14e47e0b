package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.  Costs outside the
// bcrypt range fall back to bcrypt.DefaultCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsPasswordHash reports whether stored looks like a bcrypt hash.  Rows
// written by older clients hold the secret in plain text.
func IsPasswordHash(stored string) bool {
	_, err := bcrypt.Cost([]byte(stored))
	return err == nil
}

// MatchStoredPassword checks plain against a stored credential, which is
// either a bcrypt hash or a legacy plaintext value.
func MatchStoredPassword(stored, plain string) bool {
	if IsPasswordHash(stored) {
		return VerifyPassword(stored, plain)
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
