package pngme

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"
	"unicode/utf8"

	pngerrors "github.com/pngme/pngme/pngme/errors"
)

const (
	lengthSize = 4
	typeSize   = 4
	crcSize    = 4

	// ChunkOverhead is the on-wire size of a chunk with an empty payload.
	ChunkOverhead = lengthSize + typeSize + crcSize
)

// Chunk is a single length-prefixed, CRC-protected record of a PNG datastream.
// A Chunk is immutable once built.
type Chunk struct {
	chunkType ChunkType
	data      []byte
	crc       uint32
}

// ChunkCRC computes the CRC-32 (ISO-HDLC, the zlib/libpng variant) over the
// type code followed by the payload.
func ChunkCRC(t ChunkType, data []byte) uint32 {
	h := crc32.NewIEEE()
	code := t.Bytes()
	h.Write(code[:])
	h.Write(data)
	return h.Sum32()
}

// NewChunk builds a chunk from a type and payload, computing its CRC.
func NewChunk(t ChunkType, data []byte) *Chunk {
	return &Chunk{
		chunkType: t,
		data:      append([]byte(nil), data...),
		crc:       ChunkCRC(t, data),
	}
}

// ParseChunk decodes the chunk at the start of b. Bytes after the chunk are
// ignored; use Size to advance past it.
func ParseChunk(b []byte) (*Chunk, error) {
	if len(b) < ChunkOverhead {
		return nil, pngerrors.ErrChunkTooShort.WithDetail("size", len(b))
	}

	length := binary.BigEndian.Uint32(b[0:lengthSize])

	var code [4]byte
	copy(code[:], b[lengthSize:lengthSize+typeSize])
	chunkType, err := NewChunkType(code)
	if err != nil {
		return nil, err
	}

	// uint64 keeps the bound check honest for lengths near 2^32 on 32-bit platforms.
	dataStart := uint64(lengthSize + typeSize)
	dataEnd := dataStart + uint64(length)
	if uint64(len(b)) < dataEnd+crcSize {
		return nil, pngerrors.ErrTruncated.
			WithDetail("chunkType", chunkType.String()).
			WithDetail("declared", length).
			WithDetail("available", uint64(len(b))-dataStart)
	}

	data := append([]byte(nil), b[dataStart:dataEnd]...)
	stored := binary.BigEndian.Uint32(b[dataEnd : dataEnd+crcSize])

	computed := ChunkCRC(chunkType, data)
	if stored != computed {
		return nil, pngerrors.ErrCRCMismatch.
			WithDetail("chunkType", chunkType.String()).
			WithDetail("stored", stored).
			WithDetail("computed", computed)
	}

	return &Chunk{
		chunkType: chunkType,
		data:      data,
		crc:       stored,
	}, nil
}

// Length returns the payload size in bytes.
func (c *Chunk) Length() uint32 {
	return uint32(len(c.data))
}

func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns the payload. Callers must not modify it.
func (c *Chunk) Data() []byte {
	return c.data
}

func (c *Chunk) CRC() uint32 {
	return c.crc
}

// Size returns the number of bytes the chunk occupies on the wire.
func (c *Chunk) Size() int {
	return ChunkOverhead + len(c.data)
}

// DataAsString returns the payload as text.
func (c *Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", pngerrors.ErrNotUTF8.WithDetail("chunkType", c.chunkType.String())
	}
	return string(c.data), nil
}

// Bytes serializes the chunk: length, type, payload and CRC, big-endian.
func (c *Chunk) Bytes() []byte {
	out := make([]byte, 0, c.Size())
	out = binary.BigEndian.AppendUint32(out, c.Length())
	code := c.chunkType.Bytes()
	out = append(out, code[:]...)
	out = append(out, c.data...)
	out = binary.BigEndian.AppendUint32(out, c.crc)
	return out
}

func (c *Chunk) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s ", c.Length(), c.chunkType)
	for _, v := range c.data {
		fmt.Fprintf(&b, "%d ", v)
	}
	fmt.Fprintf(&b, "%d", c.crc)
	return b.String()
}
