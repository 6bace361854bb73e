package blobstore

import (
	"fmt"
	"strings"
)

// NormalizeDigest lowercases and validates a SHA-256 hex digest.
func NormalizeDigest(raw string) (string, error) {
	digest := strings.ToLower(strings.TrimSpace(raw))
	if !digestPattern.MatchString(digest) {
		return "", fmt.Errorf("invalid content digest %q", raw)
	}
	return digest, nil
}

// MatchDeclaredDigest checks a caller-declared digest against the digest
// computed from the received bytes. An empty declaration passes; a
// well-formed declaration that differs fails with ErrIntegrityMismatch.
func MatchDeclaredDigest(computed, declared string) error {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return nil
	}
	normalized, err := NormalizeDigest(declared)
	if err != nil {
		return err
	}
	if normalized != computed {
		return fmt.Errorf("%w: declared %s, computed %s", ErrIntegrityMismatch, normalized, computed)
	}
	return nil
}
