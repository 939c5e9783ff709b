package helpers

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256 returns the hex digest of input.
func SHA256(input []byte) string {
	hash := sha256.Sum256(input)
	return hex.EncodeToString(hash[:])
}

// ShortSHA256 returns the first 8 hex characters of the digest, for log lines and identifiers.
func ShortSHA256(input []byte) string {
	return SHA256(input)[:8]
}
