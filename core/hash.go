package core

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CredentialHasher derives storable credential hashes from plaintext
// passwords. The digest is sha256 over the password bytes followed by
// the server-wide secret key, hex encoded. Deterministic: login
// compares the stored value by equality, so there is no per-user salt.
type CredentialHasher struct {
	secretKey string
}

// NewCredentialHasher validates the server key (must be non-empty and
// 7-bit clean) and returns a hasher bound to it.
func NewCredentialHasher(secretKey string) (*CredentialHasher, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("empty secret key")
	}
	if !isASCII(secretKey) {
		return nil, fmt.Errorf("secret key contains non-ascii characters")
	}
	return &CredentialHasher{secretKey: secretKey}, nil
}

// Hash returns the lowercase hex digest for password. Passwords outside
// the 7-bit character set are rejected rather than re-encoded.
func (h *CredentialHasher) Hash(password string) (string, error) {
	if !isASCII(password) {
		return "", &AccountError{Kind: ErrKindInvalidCredentialEncoding}
	}
	sum := sha256.Sum256([]byte(password + h.secretKey))
	return hex.EncodeToString(sum[:]), nil
}

// GenerateToken produces a session token: sha256 over the seed
// (typically the username) plus 128 bits of crypto/rand, hex encoded.
// Uniqueness is probabilistic; there is no store-side collision check.
func GenerateToken(seed string) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	sum := sha256.Sum256(append([]byte(seed), nonce...))
	return hex.EncodeToString(sum[:]), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
