package pngme

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	pngerrors "github.com/pngme/pngme/pngme/errors"
)

// StandardHeader is the 8-byte signature every PNG datastream starts with.
var StandardHeader = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// Png is a PNG datastream viewed as an ordered list of chunks.
type Png struct {
	chunks []*Chunk
}

// NewPng builds a container holding the given chunks in order.
func NewPng(chunks ...*Chunk) *Png {
	return &Png{chunks: append([]*Chunk(nil), chunks...)}
}

// ParsePng decodes a complete PNG datastream. Any malformed chunk fails the
// whole parse.
func ParsePng(b []byte) (*Png, error) {
	if len(b) < len(StandardHeader) {
		return nil, pngerrors.ErrBadSignature.
			WithMessage("buffer shorter than png signature").
			WithDetail("size", len(b))
	}
	if !bytes.Equal(b[:len(StandardHeader)], StandardHeader[:]) {
		return nil, pngerrors.ErrBadSignature.WithDetail("signature", b[:len(StandardHeader)])
	}

	png := &Png{}
	offset := len(StandardHeader)
	for offset < len(b) {
		chunk, err := ParseChunk(b[offset:])
		if err != nil {
			if pngErr, ok := err.(*pngerrors.PngError); ok {
				return nil, pngErr.WithDetail("offset", offset)
			}
			return nil, err
		}
		png.chunks = append(png.chunks, chunk)
		offset += chunk.Size()
	}
	return png, nil
}

// Header returns the PNG signature.
func (p *Png) Header() [8]byte {
	return StandardHeader
}

// Chunks returns a snapshot of the chunks in file order.
func (p *Png) Chunks() []*Chunk {
	return slices.Clone(p.chunks)
}

// AppendChunk adds c after the last chunk. Duplicate types are allowed.
func (p *Png) AppendChunk(c *Chunk) {
	p.chunks = append(p.chunks, c)
}

// ChunkByType returns the first chunk of the given type, or nil when there is none.
func (p *Png) ChunkByType(chunkType string) (*Chunk, error) {
	t, err := ParseChunkType(chunkType)
	if err != nil {
		return nil, err
	}
	if idx := p.indexOf(t); idx >= 0 {
		return p.chunks[idx], nil
	}
	return nil, nil
}

// RemoveChunk removes the first chunk of the given type.
func (p *Png) RemoveChunk(chunkType string) error {
	t, err := ParseChunkType(chunkType)
	if err != nil {
		return err
	}
	idx := p.indexOf(t)
	if idx < 0 {
		return pngerrors.ErrChunkNotFound.WithDetail("chunkType", chunkType)
	}
	p.chunks = slices.Delete(p.chunks, idx, idx+1)
	return nil
}

func (p *Png) indexOf(t ChunkType) int {
	for i, c := range p.chunks {
		if c.Type().Equal(t) {
			return i
		}
	}
	return -1
}

// Bytes serializes the signature followed by every chunk in order.
func (p *Png) Bytes() []byte {
	size := len(StandardHeader)
	for _, c := range p.chunks {
		size += c.Size()
	}
	out := make([]byte, 0, size)
	out = append(out, StandardHeader[:]...)
	for _, c := range p.chunks {
		out = append(out, c.Bytes()...)
	}
	return out
}

// Validate lists structural problems a PNG decoder would reject. They are
// reported, not enforced: parsing and editing work on any chunk sequence.
func (p *Png) Validate() []string {
	var problems []string
	if len(p.chunks) == 0 {
		return []string{"no chunks"}
	}
	if first := p.chunks[0].Type().String(); first != "IHDR" {
		problems = append(problems, fmt.Sprintf("first chunk is %s, want IHDR", first))
	}
	end, _ := ParseChunkType("IEND")
	if p.indexOf(end) < 0 {
		problems = append(problems, "missing IEND chunk")
	}
	return problems
}

func (p *Png) String() string {
	var b strings.Builder
	for i, c := range p.chunks {
		fmt.Fprintf(&b, "%d: %s\n", i, c)
	}
	return b.String()
}
