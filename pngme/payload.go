package pngme

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	pngerrors "github.com/pngme/pngme/pngme/errors"
)

// PackPayload prepares a message for storage in a chunk. With compress set
// the message is zlib-deflated, the framing zTXt chunks use.
func PackPayload(message []byte, compress bool) ([]byte, error) {
	if !compress {
		return message, nil
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}
	if _, err := zw.Write(message); err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compressed payload: %w", err)
	}
	return buf.Bytes(), nil
}

// UnpackPayload reverses PackPayload.
func UnpackPayload(data []byte, compressed bool) ([]byte, error) {
	if !compressed {
		return data, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, pngerrors.ErrBadPayload.WithCause(err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, pngerrors.ErrBadPayload.WithCause(err)
	}
	return out, nil
}
