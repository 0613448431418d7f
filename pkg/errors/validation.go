package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxPrecision is the largest number of decimal places a layout may keep.
const MaxPrecision = 9

// ValidateCanvas validates layout canvas parameters.
// Both values must be finite and strictly positive.
func ValidateCanvas(width, rowHeight float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return New(ErrCodeInvalidCanvas, "width must be a positive number, got %v", width)
	}
	if math.IsNaN(rowHeight) || math.IsInf(rowHeight, 0) || rowHeight <= 0 {
		return New(ErrCodeInvalidCanvas, "row height must be a positive number, got %v", rowHeight)
	}
	return nil
}

// ValidatePrecision validates the number of decimal places kept by the layout.
func ValidatePrecision(digits int) error {
	if digits < 0 || digits > MaxPrecision {
		return New(ErrCodeInvalidCanvas, "precision must be between 0 and %d, got %d", MaxPrecision, digits)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
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

	return nil
}

// ValidateInterpreter validates the name or path of a Python interpreter.
func ValidateInterpreter(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "interpreter cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "interpreter contains invalid control characters")
		}
	}
	return nil
}
