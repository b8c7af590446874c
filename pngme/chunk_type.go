package pngme

import (
	"unicode/utf8"

	pngerrors "github.com/pngme/pngme/pngme/errors"
)

// propertyBit is bit 5 of a type byte, the ASCII lower-case bit.
const propertyBit = 0x20

// ChunkType is the validated 4-byte type code of a chunk. The case of each
// byte carries one property flag, see IsCritical, IsPublic,
// IsReservedBitValid and IsSafeToCopy.
type ChunkType struct {
	code [4]byte
}

// NewChunkType builds a ChunkType from raw bytes. Every byte must be an ASCII letter.
func NewChunkType(b [4]byte) (ChunkType, error) {
	for _, c := range b {
		if !isASCIILetter(c) {
			return ChunkType{}, pngerrors.ErrInvalidChunkType.WithDetail("bytes", b[:])
		}
	}
	return ChunkType{code: b}, nil
}

// ParseChunkType builds a ChunkType from its 4-character text form.
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, pngerrors.ErrInvalidLength.WithDetail("chunkType", s)
	}
	return NewChunkType([4]byte{s[0], s[1], s[2], s[3]})
}

// Bytes returns a copy of the type code.
func (t ChunkType) Bytes() [4]byte {
	return t.code
}

// IsCritical reports whether decoders must understand the chunk (upper-case first byte).
func (t ChunkType) IsCritical() bool {
	return t.code[0]&propertyBit == 0
}

// IsPublic reports whether the type is registered by the PNG specification (upper-case second byte).
func (t ChunkType) IsPublic() bool {
	return t.code[1]&propertyBit == 0
}

// IsReservedBitValid reports whether the reserved third byte is upper-case.
func (t ChunkType) IsReservedBitValid() bool {
	return t.code[2]&propertyBit == 0
}

// IsSafeToCopy reports whether editors that don't recognise the chunk may copy it (lower-case fourth byte).
func (t ChunkType) IsSafeToCopy() bool {
	return t.code[3]&propertyBit != 0
}

// IsValid reports whether all bytes are letters and the reserved bit is clear.
func (t ChunkType) IsValid() bool {
	for _, c := range t.code {
		if !isASCIILetter(c) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// Equal reports byte-wise equality.
func (t ChunkType) Equal(other ChunkType) bool {
	return t.code == other.code
}

func (t ChunkType) String() string {
	if !utf8.Valid(t.code[:]) {
		return "????"
	}
	return string(t.code[:])
}

func isASCIILetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}
