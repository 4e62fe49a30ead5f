package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength applies to password updates; registration mirrors
// the original form which enforces presence only.
const MinPasswordLength = 8

// hashPassword computes a salted adaptive hash of the password.
// bcrypt.DefaultCost is the industry-standard work factor of 10.
func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// verifyPassword compares the password against the stored hash in
// constant time. An empty hash (social-only account) never matches.
func verifyPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
