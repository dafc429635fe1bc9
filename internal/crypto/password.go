// Package crypto implements the password hashing used to gate whisp
// retrieval. The service never stores access passwords in the clear; only
// the digest produced here is persisted on the record.
package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// normalizePassword pre-hashes the password with SHA-256 before it reaches
// bcrypt. This keeps passwords of any length within bcrypt's 72-byte input
// limit and gives a fixed-length input regardless of what the client sends.
func normalizePassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// HashPassword returns the bcrypt digest of the SHA-256-normalized password.
// The digest is safe to persist; it embeds its own salt and cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(normalizePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}

// VerifyPassword reports whether the candidate password matches the stored
// digest. A malformed digest counts as a mismatch, not an error: from the
// caller's perspective the password simply does not open the record.
func VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), normalizePassword(password)) == nil
}
