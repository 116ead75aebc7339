package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Prefix tags every fingerprint with the algorithm that produced it.
const Prefix = "sha256:"

// Fingerprint computes the SHA256 hash of content in the form "sha256:<hex>".
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return Prefix + hex.EncodeToString(sum[:])
}

// FingerprintFile reads path and returns its fingerprint.
func FingerprintFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for hashing: %w", path, err)
	}
	return Fingerprint(content), nil
}
