// Package errors provides structured error types for pyimporttime.
//
// This package defines error codes and types that enable:
//   - Machine-readable error codes for programmatic handling
//   - Line-level diagnostics for trace parsing failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Trace errors are reported with the 1-based line number of the offending
// record and its raw text:
//   - MALFORMED_LINE: a labelled line whose fields cannot be parsed
//   - INCONSISTENT_RECORD: timings that contradict each other
//   - DEPTH_SKIP: a record without a valid enclosing import
//   - NO_RECORDS: input without any import time lines
//
// Everything else follows the INVALID_* / INTERNAL_* convention.
//
// # Usage
//
//	err := errors.AtLine(errors.ErrCodeMalformedLine, 12, raw, "negative self time")
//	if errors.Is(err, errors.ErrCodeMalformedLine) {
//	    line, _ := errors.LineOf(err)
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Trace errors
	ErrCodeMalformedLine      Code = "MALFORMED_LINE"
	ErrCodeInconsistentRecord Code = "INCONSISTENT_RECORD"
	ErrCodeDepthSkip          Code = "DEPTH_SKIP"
	ErrCodeNoRecords          Code = "NO_RECORDS"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle   Code = "INVALID_STYLE"
	ErrCodeInvalidVizType Code = "INVALID_VIZ_TYPE"
	ErrCodeInvalidCanvas  Code = "INVALID_CANVAS"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Process errors
	ErrCodeCaptureFailed Code = "CAPTURE_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
// Line and Text are set for errors tied to a specific trace line.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Line    int    // 1-based source line, 0 when not applicable
	Text    string // Raw text of the offending line
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// AtLine creates an Error attached to a trace line.
func AtLine(code Code, line int, text string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Text:    text,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LineOf returns the trace line an error refers to.
func LineOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Line > 0 {
		return e.Line, true
	}
	return 0, false
}

// UserMessage returns the message shown to users: the first *Error's
// message without its code, followed by its cause. Line-bound errors are
// prefixed with the line number and followed by the offending text on an
// indented second line. Other errors are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	msg := e.Message
	if e.Cause != nil {
		msg += ": " + UserMessage(e.Cause)
	}
	if e.Line == 0 {
		return msg
	}
	msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	if text := strings.TrimSpace(e.Text); text != "" {
		msg += "\n    " + text
	}
	return msg
}
