package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a graph node identifier.
// It rejects identifiers that would break DOT output or cache keys.
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No double quotes
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidGraph, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node id %q contains control characters", id)
		}
	}

	if strings.Contains(id, `"`) {
		return New(ErrCodeInvalidGraph, "node id %q contains a double quote", id)
	}

	return nil
}

// ValidateRange checks that an integer parameter lies in [lo, hi].
func ValidateRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidInput, "%s must be between %d and %d, got %d", name, lo, hi, v)
	}
	return nil
}
