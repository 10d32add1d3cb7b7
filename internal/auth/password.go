package auth

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
)

const (
	DefaultScryptN = 1 << 12
	scryptR        = 8
	scryptP        = 1
	scryptKeyLen   = 64
)

// PasswordHasher derives password digests with scrypt. The output is the hex
// encoded 64-byte key, so hashes written by earlier deployments using the same
// parameters keep verifying.
type PasswordHasher struct {
	n int
}

func NewPasswordHasher(n int) *PasswordHasher {
	if n <= 1 || n&(n-1) != 0 {
		n = DefaultScryptN
	}
	return &PasswordHasher{n: n}
}

// NewSalt returns a fresh random per-user salt
func (h *PasswordHasher) NewSalt() string {
	return uuid.NewString()
}

func (h *PasswordHasher) Hash(password, salt string) (string, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), h.n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive password key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Verify recomputes the digest and compares it in constant time
func (h *PasswordHasher) Verify(password, salt, encoded string) (bool, error) {
	computed, err := h.Hash(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(encoded)) == 1, nil
}
