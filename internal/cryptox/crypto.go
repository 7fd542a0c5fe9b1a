// Package cryptox derives and checks password verifiers for the development
// server's account store.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// PasswordHash is what the server keeps instead of the password.
type PasswordHash struct {
	Salt     []byte
	Verifier []byte
}

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword salts and stretches password.
func HashPassword(password []byte) (PasswordHash, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return PasswordHash{}, err
	}
	return PasswordHash{Salt: salt, Verifier: MakeVerifier(DeriveKey(password, salt))}, nil
}

// CheckPassword compares in constant time.
func CheckPassword(h PasswordHash, password []byte) bool {
	if len(h.Salt) == 0 || len(h.Verifier) == 0 {
		return false
	}
	candidate := MakeVerifier(DeriveKey(password, h.Salt))
	return subtle.ConstantTimeCompare(h.Verifier, candidate) == 1
}
