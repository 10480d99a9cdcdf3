package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// IDLength is the length of an integration identifier: the first half
// of a sha256 hex digest.
const IDLength = 32

// NewIntegrationID generates a secure integration identifier: 32 bytes
// of entropy hashed with sha256, rendered as the first 32 lowercase hex
// characters of the digest. The only failure mode is entropy-source
// exhaustion, which callers should treat as fatal.
func NewIntegrationID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: read entropy: %w", err)
	}
	digest := sha256.Sum256(buf)
	return hex.EncodeToString(digest[:])[:IDLength], nil
}
