package errors

import (
	stderrors "errors"
	"fmt"
)

// Error types for chunk codec and container operations
var (
	// ErrInvalidLength is returned when a chunk type string is not exactly 4 bytes
	ErrInvalidLength = &PngError{Code: "INVALID_LENGTH", Message: "chunk type must be 4 bytes"}

	// ErrInvalidChunkType is returned when a chunk type contains a non-alphabetic byte
	ErrInvalidChunkType = &PngError{Code: "INVALID_CHUNK_TYPE", Message: "invalid chunk type"}

	// ErrChunkTooShort is returned when a buffer cannot hold even an empty chunk
	ErrChunkTooShort = &PngError{Code: "CHUNK_TOO_SHORT", Message: "chunk shorter than 12 bytes"}

	// ErrTruncated is returned when a chunk declares more data than the buffer holds
	ErrTruncated = &PngError{Code: "TRUNCATED", Message: "chunk truncated"}

	// ErrCRCMismatch is returned when the stored CRC does not match the chunk contents
	ErrCRCMismatch = &PngError{Code: "CRC_MISMATCH", Message: "chunk crc mismatch"}

	// ErrBadSignature is returned when a buffer does not start with the PNG signature
	ErrBadSignature = &PngError{Code: "BAD_SIGNATURE", Message: "bad png signature"}

	// ErrChunkNotFound is returned when removing a chunk type that is not present
	ErrChunkNotFound = &PngError{Code: "CHUNK_NOT_FOUND", Message: "chunk not found"}

	// ErrNotUTF8 is returned when a chunk payload is not valid UTF-8 text
	ErrNotUTF8 = &PngError{Code: "NOT_UTF8", Message: "chunk data is not valid utf-8"}

	// ErrBadPayload is returned when a compressed message cannot be inflated
	ErrBadPayload = &PngError{Code: "BAD_PAYLOAD", Message: "compressed payload is corrupt"}
)

// PngError represents a structured error in chunk and container operations
type PngError struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error, if any
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *PngError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PngError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a PngError with the same code, so decorated
// copies still match their sentinel.
func (e *PngError) Is(target error) bool {
	t, ok := target.(*PngError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause adds a cause to the error
func (e *PngError) WithCause(cause error) *PngError {
	return &PngError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

// WithDetail adds a detail key-value pair to the error
func (e *PngError) WithDetail(key string, value interface{}) *PngError {
	details := make(map[string]interface{})
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &PngError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *PngError) WithMessage(message string) *PngError {
	return &PngError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// GetErrorCode extracts the error code from a PngError anywhere in the chain
func GetErrorCode(err error) string {
	var pngErr *PngError
	if stderrors.As(err, &pngErr) {
		return pngErr.Code
	}
	return ""
}
