// Package digest provides the one-way transforms applied to vault secrets
// before they are stored or compared.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the SHA-256 digest of plaintext as lowercase hex.
// It is deterministic: the same input always yields the same digest.
func Sum(plaintext string) string {
	h := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(h[:])
}

// NormalizeAnswer canonicalizes a security-question answer so that case and
// surrounding whitespace differences do not block recovery.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// SumAnswer digests a security-question answer after normalization.
func SumAnswer(answer string) string {
	return Sum(NormalizeAnswer(answer))
}
