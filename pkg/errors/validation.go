package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// layoutIDRegex matches layout IDs usable as store keys, file names and URL
// path segments.
var layoutIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateLayoutID validates a layout ID for safety and correctness.
// It rejects IDs that could be used for path traversal or key injection.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
//   - No path traversal sequences (..)
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "layout id too long (max 128 characters)")
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "layout id cannot contain path traversal sequences (..)")
	}

	if !layoutIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid layout id: %q", id)
	}

	return nil
}

// ValidateElementRef validates a reference to an element: a UUID, an
// identifier or a display name.
func ValidateElementRef(ref string) error {
	if ref == "" {
		return New(ErrCodeInvalidInput, "element reference cannot be empty")
	}
	return ValidateName(ref)
}

// ValidateName validates a display name. Empty names are allowed.
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidateSelection validates an ordered selection of element references.
// The selection must be non-empty and free of duplicates.
func ValidateSelection(refs []string) error {
	if len(refs) == 0 {
		return New(ErrCodeInvalidSelection, "selection cannot be empty")
	}

	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if err := ValidateElementRef(ref); err != nil {
			return Wrap(ErrCodeInvalidSelection, err, "invalid selection")
		}
		if seen[ref] {
			return New(ErrCodeInvalidSelection, "element %q selected twice", ref)
		}
		seen[ref] = true
	}

	return nil
}

// ValidateScaleFactor validates a scale factor: finite and strictly positive.
func ValidateScaleFactor(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return New(ErrCodeOutOfBounds, "scale factor must be positive, got %g", f)
	}
	return nil
}

// ValidatePath validates a file path within a store directory for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}
