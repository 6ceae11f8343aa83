package identity

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor. 12 keeps interactive login under a
// few hundred milliseconds while staying expensive for offline attacks.
const bcryptCost = 12

// HashPassword hashes a plaintext password with bcrypt. The output embeds
// the algorithm identifier, cost and a fresh random salt, so verification
// needs nothing beyond the stored string, and hashing the same password
// twice never yields the same result.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash
// in constant time. Returns false for a malformed stored hash rather than
// an error: to the login flow it is just a failed credential.
func VerifyPassword(password, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}
