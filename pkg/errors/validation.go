package errors

import (
	"strings"
	"unicode"
)

// ValidateSubjectID validates a subject identifier for safety and correctness.
// Identifiers end up in cache keys, archive records, and file names, so the
// rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateSubjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSubject, "subject id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidSubject, "subject id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSubject, "subject id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidSubject, "subject id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateColorToken validates an anonymous color token (e.g. "#7FB5A3").
// Tokens are embedded verbatim in SVG attributes, so only a strict hex
// form is accepted.
func ValidateColorToken(token string) error {
	if token == "" {
		return New(ErrCodeInvalidSubject, "color token cannot be empty")
	}
	if !strings.HasPrefix(token, "#") || (len(token) != 4 && len(token) != 7) {
		return New(ErrCodeInvalidSubject, "color token must be #RGB or #RRGGBB, got %q", token)
	}
	for _, r := range token[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return New(ErrCodeInvalidSubject, "color token contains non-hex character %q", r)
		}
	}
	return nil
}

// ValidateOutputPath validates an output file path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}
