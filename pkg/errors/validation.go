package errors

import (
	"strings"
	"unicode"
)

// maxKeyLength bounds attribute key names accepted from users.
const maxKeyLength = 128

// ValidateAttributeKey validates an attribute key used to read sizes, values
// or names from a source document.
//
// Keys must be non-empty, reasonably short and free of whitespace and
// control characters.
func ValidateAttributeKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "attribute key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidInput, "attribute key too long (max %d characters)", maxKeyLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "attribute key %q contains invalid characters", key)
		}
	}
	return nil
}

// ValidatePath validates a subtree selection path of the form "a/b/c".
// It returns the path split into its name segments.
//
// Validation rules:
//   - Empty path selects the root and yields no segments
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No empty segments ("a//b")
func ValidatePath(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return nil, New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return nil, New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}
	segments := strings.Split(trimmed, "/")
	for _, s := range segments {
		if s == "" {
			return nil, New(ErrCodeInvalidPath, "path %q contains an empty segment", path)
		}
	}
	return segments, nil
}
