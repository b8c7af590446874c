package storage

import (
	"context"

	"github.com/opencontainers/go-digest"
)

// FileDescriptor describes a stored file.
type FileDescriptor struct {
	Path   string
	Size   int64
	Digest digest.Digest
}

// Storage abstracts whole-file reads and writes of PNG datastreams.
type Storage interface {
	Stat(ctx context.Context, path string) (FileDescriptor, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
}
