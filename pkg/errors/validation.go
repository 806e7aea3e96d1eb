package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds archetype and diagram names.
const maxNameLength = 256

// ValidateName validates an archetype or diagram display name.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters (names end up in document comments)
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidateLabel validates a component label. Labels are emitted inside a
// brace group, so unbalanced braces and line breaks would corrupt the
// generated document.
func ValidateLabel(label string) error {
	if strings.ContainsAny(label, "\r\n") {
		return New(ErrCodeInvalidInput, "label cannot contain line breaks")
	}

	depth := 0
	for _, r := range label {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return New(ErrCodeInvalidInput, "label has unbalanced braces: %q", label)
			}
		}
	}
	if depth != 0 {
		return New(ErrCodeInvalidInput, "label has unbalanced braces: %q", label)
	}

	return nil
}

// ValidatePath validates a storage key or file path supplied by a remote
// caller. It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
