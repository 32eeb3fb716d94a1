package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex-encoded sha256 digest of a raw token.
// Refresh tokens are persisted only in this form. A fast digest is fine here:
// the raw values are high-entropy signed tokens, not passwords.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
