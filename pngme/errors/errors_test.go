package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPngError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *PngError
		wantStr string
	}{
		{
			name: "basic error",
			err: &PngError{
				Code:    "TEST_ERROR",
				Message: "test message",
			},
			wantStr: "[TEST_ERROR] test message",
		},
		{
			name: "error with cause",
			err: &PngError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Cause:   errors.New("underlying error"),
			},
			wantStr: "[TEST_ERROR] test message: underlying error",
		},
		{
			name: "error with details",
			err: &PngError{
				Code:    "TEST_ERROR",
				Message: "test message",
				Details: map[string]interface{}{"key": "value"},
			},
			wantStr: "details",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if !strings.Contains(got, tt.wantStr) {
				t.Errorf("Error() = %q, want to contain %q", got, tt.wantStr)
			}
		})
	}
}

func TestPngError_WithCause(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrNotUTF8.WithCause(cause)

	if err.Cause != cause {
		t.Errorf("WithCause() cause = %v, want %v", err.Cause, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("WithCause() should allow errors.Is to work")
	}
}

func TestPngError_WithDetail(t *testing.T) {
	err := ErrChunkNotFound.WithDetail("chunkType", "ruSt")

	if err.Details["chunkType"] != "ruSt" {
		t.Errorf("WithDetail() chunkType = %v, want ruSt", err.Details["chunkType"])
	}

	if len(ErrChunkNotFound.Details) != 0 {
		t.Error("WithDetail() must not mutate the sentinel")
	}
}

func TestPngError_WithMessage(t *testing.T) {
	err := ErrBadSignature.WithMessage("custom message")

	if err.Message != "custom message" {
		t.Errorf("WithMessage() message = %q, want 'custom message'", err.Message)
	}
}

func TestPngError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "sentinel",
			err:    ErrCRCMismatch,
			target: ErrCRCMismatch,
			want:   true,
		},
		{
			name:   "decorated copy",
			err:    ErrCRCMismatch.WithDetail("stored", uint32(1)).WithDetail("computed", uint32(2)),
			target: ErrCRCMismatch,
			want:   true,
		},
		{
			name:   "wrapped by fmt",
			err:    fmt.Errorf("failed to parse: %w", ErrTruncated.WithDetail("declared", 10)),
			target: ErrTruncated,
			want:   true,
		},
		{
			name:   "different code",
			err:    ErrTruncated,
			target: ErrChunkTooShort,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "PngError",
			err:  ErrInvalidLength,
			want: "INVALID_LENGTH",
		},
		{
			name: "PngError with modifications",
			err:  ErrInvalidChunkType.WithDetail("bytes", []byte("Ru1t")),
			want: "INVALID_CHUNK_TYPE",
		},
		{
			name: "wrapped PngError",
			err:  fmt.Errorf("remove: %w", ErrChunkNotFound),
			want: "CHUNK_NOT_FOUND",
		},
		{
			name: "standard error",
			err:  errors.New("test"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}
