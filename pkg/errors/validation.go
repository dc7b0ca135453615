package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateModelPath validates the path of an event model file.
//
// The rules are:
//   - No empty paths
//   - No null bytes or control characters
//   - Extension .json, .yaml or .yml
func ValidateModelPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported model file %q (want .json, .yaml or .yml)", filepath.Base(path))
}

// ValidateRedisURL validates a Redis connection URL.
// It ensures the URL uses the redis or rediss scheme.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}
	return nil
}

// ValidateRequestID validates a client-supplied request id.
// Accepted ids are 1 to 128 printable, non-space characters.
func ValidateRequestID(id string) error {
	if id == "" || len(id) > 128 {
		return New(ErrCodeInvalidInput, "request id must be 1-128 characters")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "request id contains invalid characters")
		}
	}
	return nil
}
