package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned for any failed comparison. A malformed
// stored hash and a wrong password are indistinguishable to callers.
var ErrPasswordMismatch = errors.New("password mismatch")

// dummyHash is a valid bcrypt hash of a random value. Compared against when
// no account exists so lookup misses cost the same as password mismatches.
const dummyHash = "$2a$12$K5ZfIqLiEW2yk91Y0Yz1d.9jF0VxMYfJZQX6cOYvQ4hHkR3qUO9n6"

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// BurnCompare runs a bcrypt comparison against a fixed hash and discards the
// result. Called on the unknown-identifier path of login so its timing
// matches a real comparison.
func BurnCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
