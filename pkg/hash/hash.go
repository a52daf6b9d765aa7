package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 16
	keyLen     = 32
	iterations = 120_000
)

// HashPassword derives a PBKDF2-SHA256 key from the password under a fresh
// random salt. Hash and salt are always generated together and stored as a
// pair; the plaintext never leaves this package.
func HashPassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	hash = pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return hash, salt, nil
}

// CheckPassword reports whether password matches the stored hash/salt pair.
// The comparison is constant-time; a wrong password is a false, never an error.
func CheckPassword(password string, hash, salt []byte) bool {
	derived := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return subtle.ConstantTimeCompare(derived, hash) == 1
}
