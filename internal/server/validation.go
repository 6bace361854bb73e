package server

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

const (
	maxFilenameLength = 255
	fallbackMediaType = "application/octet-stream"
)

// validateFilename strips any path components and rejects empty or
// oversized names. Stored filenames are display labels, never paths.
func validateFilename(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return "", fmt.Errorf("invalid filename %q", raw)
	}
	if len(name) > maxFilenameLength {
		return "", fmt.Errorf("filename exceeds %d characters", maxFilenameLength)
	}
	if strings.ContainsRune(name, '\x00') {
		return "", fmt.Errorf("invalid filename %q", raw)
	}
	return name, nil
}

// normalizeMediaType parses and lowercases a media type, dropping
// parameters. Empty input normalizes to empty without error.
func normalizeMediaType(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	parsed, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(parsed)), nil
}
