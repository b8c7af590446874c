package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"github.com/pngme/pngme/pngme/logger"
)

// LocalStorage reads and writes files on the local filesystem.
type LocalStorage struct{}

// NewLocalStorage creates a filesystem-backed storage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// Stat reports the size of path and streams it through the digester.
func (s *LocalStorage) Stat(ctx context.Context, path string) (FileDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return FileDescriptor{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	dgst, err := digest.FromReader(f)
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("failed to digest %s: %w", path, err)
	}
	return FileDescriptor{
		Path:   path,
		Size:   info.Size(),
		Digest: dgst,
	}, nil
}

// ReadFile returns the full contents of path.
func (s *LocalStorage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	logger.Debug("Read %d bytes from %s", len(data), path)
	return data, nil
}

// WriteFile replaces path with data. The content goes to a temporary file in
// the same directory first and is renamed over path, so a failed write never
// leaves a half-written image behind. An existing file keeps its mode.
func (s *LocalStorage) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	logger.Debug("Wrote %d bytes to %s", len(data), path)
	return nil
}
