package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost pins the work factor; bcrypt embeds it in the digest so
// existing hashes stay verifiable if this ever changes.
const bcryptCost = 10

func hashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// verifyPassword reports whether plaintext matches the stored digest.
// Any failure, including a malformed digest, is "no match"; verification
// never errors in a way that could bypass the credential check.
func verifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
