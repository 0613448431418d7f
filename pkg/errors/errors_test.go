package errors

import (
	"errors"
	"fmt"
	"testing"
)

const rawLine = "import time:     x |     12 |   json.decoder"

func TestErrorString(t *testing.T) {
	cause := errors.New("no such file or directory")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"new", New(ErrCodeInvalidFormat, "unknown format %q", "gif"), `INVALID_FORMAT: unknown format "gif"`},
		{"wrap", Wrap(ErrCodeInvalidConfig, cause, "read %s", "pyproject.toml"), "INVALID_CONFIG: read pyproject.toml: no such file or directory"},
		{"at line", AtLine(ErrCodeMalformedLine, 7, rawLine, "self time %q is not a number", "x"), `MALFORMED_LINE: line 7: self time "x" is not a number`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("exec: \"python3\": executable file not found in $PATH")
	err := Wrap(ErrCodeCaptureFailed, cause, "run python3")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestAtLineFields(t *testing.T) {
	err := AtLine(ErrCodeDepthSkip, 3, rawLine, "no enclosing import")
	if err.Line != 3 || err.Text != rawLine || err.Cause != nil {
		t.Errorf("AtLine() = %+v", err)
	}
}

func TestIs(t *testing.T) {
	depthSkip := AtLine(ErrCodeDepthSkip, 3, "", "skip")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeNoRecords, "empty"), ErrCodeNoRecords, true},
		{"other code", New(ErrCodeNoRecords, "empty"), ErrCodeDepthSkip, false},
		{"outermost wins", Wrap(ErrCodeCaptureFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeCaptureFailed, true},
		{"inner not matched", Wrap(ErrCodeCaptureFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInvalidInput, false},
		{"fmt wrapped", fmt.Errorf("build tree: %w", depthSkip), ErrCodeDepthSkip, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndLineOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
		wantLine int
	}{
		{"line error", fmt.Errorf("parse: %w", AtLine(ErrCodeInconsistentRecord, 42, "", "bad")), ErrCodeInconsistentRecord, 42},
		{"no line", New(ErrCodeNoRecords, "empty"), ErrCodeNoRecords, 0},
		{"plain", errors.New("plain"), "", 0},
		{"nil", nil, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v", got, tt.wantCode)
			}
			line, ok := LineOf(tt.err)
			if line != tt.wantLine || ok != (tt.wantLine > 0) {
				t.Errorf("LineOf() = %d, %v, want %d", line, ok, tt.wantLine)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidStyle, "unknown style %q", "neon"),
			want: `unknown style "neon"`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInvalidConfig, errors.New("permission denied"), "read .pyimporttime.toml"),
			want: "read .pyimporttime.toml: permission denied",
		},
		{
			name: "nested codes",
			err:  Wrap(ErrCodeInvalidConfig, New(ErrCodeInvalidStyle, "unknown style %q", "neon"), "pyproject.toml"),
			want: `pyproject.toml: unknown style "neon"`,
		},
		{
			name: "with line and text",
			err:  AtLine(ErrCodeMalformedLine, 2, "  "+rawLine+"  ", "self time is not a number"),
			want: "line 2: self time is not a number\n    " + rawLine,
		},
		{
			name: "line without text",
			err:  AtLine(ErrCodeDepthSkip, 5, "", "no enclosing import"),
			want: "line 5: no enclosing import",
		},
		{
			name: "plain error",
			err:  errors.New("plain error"),
			want: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
