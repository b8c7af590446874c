package pngme

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/opencontainers/go-digest"
	pngerrors "github.com/pngme/pngme/pngme/errors"
	"github.com/pngme/pngme/pngme/logger"
	"github.com/pngme/pngme/pngme/storage"
	"golang.org/x/sync/errgroup"
)

// inspectConcurrency bounds how many files InspectAll holds in memory at once.
const inspectConcurrency = 4

// ProgressCallback is called as files are processed
// current: files finished so far
// total: number of files
type ProgressCallback func(current int64, total int64)

// EncodeOptions configures Editor.Encode.
type EncodeOptions struct {
	ChunkType string
	Message   string
	// Output is the destination path; empty rewrites the source file.
	Output   string
	Compress bool
}

// DecodeOptions configures Editor.Decode.
type DecodeOptions struct {
	Compressed bool
}

// Report is the result of inspecting one file.
type Report struct {
	Path     string
	Digest   digest.Digest
	Size     int64
	Png      *Png
	Warnings []string
}

// Editor applies chunk operations to PNG files held in a Storage.
type Editor interface {
	Encode(ctx context.Context, path string, opts EncodeOptions) error
	// Decode returns the message stored in the first chunk of chunkType.
	// found is false when the file has no such chunk.
	Decode(ctx context.Context, path string, chunkType string, opts DecodeOptions) (message string, found bool, err error)
	Remove(ctx context.Context, path string, chunkType string) error
	Inspect(ctx context.Context, path string) (*Report, error)
	// InspectAll inspects paths concurrently; reports keep the order of paths.
	InspectAll(ctx context.Context, paths []string, progress ProgressCallback) ([]*Report, error)
}

type editor struct {
	store storage.Storage
}

func NewEditor(store storage.Storage) Editor {
	return &editor{
		store: store,
	}
}

func (e *editor) load(ctx context.Context, path string) (*Png, error) {
	data, err := e.store.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	png, err := ParsePng(data)
	if err != nil {
		logger.Error("Failed to parse %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	logger.Debug("Parsed %s: %d chunks", path, len(png.Chunks()))
	return png, nil
}

func (e *editor) Encode(ctx context.Context, path string, opts EncodeOptions) error {
	chunkType, err := ParseChunkType(opts.ChunkType)
	if err != nil {
		return err
	}
	if !chunkType.IsValid() {
		logger.Warn("Chunk type %s has the reserved bit set; decoders may reject it", chunkType)
	}

	png, err := e.load(ctx, path)
	if err != nil {
		return err
	}

	payload, err := PackPayload([]byte(opts.Message), opts.Compress)
	if err != nil {
		return err
	}
	png.AppendChunk(NewChunk(chunkType, payload))

	output := opts.Output
	if output == "" {
		output = path
	}
	if err := e.store.WriteFile(ctx, output, png.Bytes()); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Info("Encoded %d byte message into %s chunk of %s", len(payload), chunkType, output)
	return nil
}

func (e *editor) Decode(ctx context.Context, path string, chunkType string, opts DecodeOptions) (string, bool, error) {
	png, err := e.load(ctx, path)
	if err != nil {
		return "", false, err
	}

	chunk, err := png.ChunkByType(chunkType)
	if err != nil {
		return "", false, err
	}
	if chunk == nil {
		logger.Info("No %s chunk in %s", chunkType, path)
		return "", false, nil
	}

	if !opts.Compressed {
		message, err := chunk.DataAsString()
		return message, true, err
	}

	payload, err := UnpackPayload(chunk.Data(), true)
	if err != nil {
		return "", true, err
	}
	if !utf8.Valid(payload) {
		return "", true, pngerrors.ErrNotUTF8.WithDetail("chunkType", chunkType)
	}
	return string(payload), true, nil
}

func (e *editor) Remove(ctx context.Context, path string, chunkType string) error {
	png, err := e.load(ctx, path)
	if err != nil {
		return err
	}

	if err := png.RemoveChunk(chunkType); err != nil {
		return err
	}

	if err := e.store.WriteFile(ctx, path, png.Bytes()); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Info("Removed %s chunk from %s", chunkType, path)
	return nil
}

func (e *editor) Inspect(ctx context.Context, path string) (*Report, error) {
	png, err := e.load(ctx, path)
	if err != nil {
		return nil, err
	}

	desc, err := e.store.Stat(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	report := &Report{
		Path:     path,
		Digest:   desc.Digest,
		Size:     desc.Size,
		Png:      png,
		Warnings: png.Validate(),
	}
	for _, w := range report.Warnings {
		logger.Warn("%s: %s", path, w)
	}
	return report, nil
}

func (e *editor) InspectAll(ctx context.Context, paths []string, progress ProgressCallback) ([]*Report, error) {
	reports := make([]*Report, len(paths))
	total := int64(len(paths))

	if progress != nil {
		progress(0, total)
	}

	var (
		mu   sync.Mutex
		done int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(inspectConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			report, err := e.Inspect(gctx, path)
			if err != nil {
				return err
			}
			reports[i] = report

			if progress != nil {
				mu.Lock()
				done++
				progress(done, total)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
