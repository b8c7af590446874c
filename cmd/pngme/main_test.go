package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	pngerrors "github.com/pngme/pngme/pngme/errors"
	"github.com/pngme/pngme/pngme/logger"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "io error",
			err:  fmt.Errorf("failed to read file: %w", os.ErrNotExist),
			want: exitFailure,
		},
		{
			name: "crc mismatch",
			err:  fmt.Errorf("failed to parse a.png: %w", pngerrors.ErrCRCMismatch.WithDetail("offset", 33)),
			want: exitBadImage,
		},
		{
			name: "bad payload",
			err:  pngerrors.ErrBadPayload.WithCause(errors.New("zlib: invalid header")),
			want: exitBadImage,
		},
		{
			name: "missing chunk",
			err:  pngerrors.ErrChunkNotFound.WithDetail("chunkType", "ruSt"),
			want: exitNoSuchChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUseProgressBar(t *testing.T) {
	prevLevel := logger.GetLogLevel()
	prevNoProgress := noProgress
	t.Cleanup(func() {
		logger.SetLogLevel(prevLevel)
		noProgress = prevNoProgress
	})

	tests := []struct {
		name       string
		level      logger.LogLevel
		noProgress bool
		files      int
		want       bool
	}{
		{name: "several files", level: logger.LogLevelError, files: 3, want: true},
		{name: "single file", level: logger.LogLevelError, files: 1, want: false},
		{name: "disabled", level: logger.LogLevelError, noProgress: true, files: 3, want: false},
		{name: "verbose logging", level: logger.LogLevelInfo, files: 3, want: false},
		{name: "debug logging", level: logger.LogLevelDebug, files: 3, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger.SetLogLevel(tt.level)
			noProgress = tt.noProgress
			if got := useProgressBar(tt.files); got != tt.want {
				t.Errorf("useProgressBar(%d) = %v, want %v", tt.files, got, tt.want)
			}
		})
	}
}
