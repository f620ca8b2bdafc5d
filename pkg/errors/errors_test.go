package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidScale, "unknown scale: %s", "kelvin")

	if err.Code != ErrCodeInvalidScale {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidScale)
	}
	if err.Message != "unknown scale: kelvin" {
		t.Errorf("Message = %q, want %q", err.Message, "unknown scale: kelvin")
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeEmptyCohort, "cohort has no subjects"),
			want: "EMPTY_COHORT: cohort has no subjects",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeRendererFailed, fmt.Errorf("exit status 1"), "convert document"),
			want: "RENDERER_FAILED: convert document: exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(ErrCodeInternal, cause, "stamping failed")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInsufficientData, "too few samples"), ErrCodeInsufficientData, true},
		{"different code", New(ErrCodeInsufficientData, "too few samples"), ErrCodeEmptyCohort, false},
		{"wrapped error", fmt.Errorf("outer: %w", New(ErrCodeInvalidFormat, "bad format")), ErrCodeInvalidFormat, true},
		{"plain error", fmt.Errorf("plain"), ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %q) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "missing")); got != ErrCodeNotFound {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeNotFound)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInsufficientData, "series has 4 samples, need at least 6")
	if got := UserMessage(err); strings.Contains(got, string(ErrCodeInsufficientData)) {
		t.Errorf("UserMessage should not contain the code, got %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestValidateSubjectID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid id", "subj-042", false},
		{"valid uuid-like", "b51c8fa0-7d15-4f6e-9b6a-1fb1f2a8c001", false},
		{"empty", "", true},
		{"path traversal", "../secrets", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"control char", "abc\x07", true},
		{"too long", strings.Repeat("x", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubjectID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubjectID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColorToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"long form", "#7FB5A3", false},
		{"short form", "#fa0", false},
		{"missing hash", "7FB5A3", true},
		{"bad length", "#7FB5A", true},
		{"non hex", "#7FB5GZ", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColorToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColorToken(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
		})
	}
}
