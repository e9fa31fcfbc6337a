package fragment

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// InternalFixupSize is the exact wire size of InternalFixup: 12 bytes,
// no padding beyond the two reserved zero bytes after Type, little-endian,
// standard-layout. Mirrors the C++ struct's static_asserts exactly.
const InternalFixupSize = 12

// ExternalFixupSize is the exact wire size of ExternalFixup: 32 bytes on
// 64-bit layouts.
const ExternalFixupSize = 32

// InternalFixup is a pending relocation within the same fragment. Offset
// is intentionally 32-bit, narrower than ExternalFixup.Offset: an
// internal fixup can only ever address within one section.
type InternalFixup struct {
	Section byte
	Type    byte
	Offset  uint32
	Addend  uint32
}

// Encode writes the 12-byte wire representation into b, which must be at
// least InternalFixupSize long.
func (f InternalFixup) Encode(b []byte) {
	b[0] = f.Section
	b[1] = f.Type
	binary.LittleEndian.PutUint16(b[2:4], 0) // Padding
	binary.LittleEndian.PutUint32(b[4:8], f.Offset)
	binary.LittleEndian.PutUint32(b[8:12], f.Addend)
}

func DecodeInternalFixup(b []byte) InternalFixup {
	return InternalFixup{
		Section: b[0],
		Type:    b[1],
		Offset:  binary.LittleEndian.Uint32(b[4:8]),
		Addend:  binary.LittleEndian.Uint32(b[8:12]),
	}
}

// ExternalFixup names a symbol rather than a section-relative offset; it
// can target any module offset, hence the wider 64-bit Offset/Addend.
type ExternalFixup struct {
	Name   uint64 // interned-string address of the target symbol's name
	Type   byte
	Offset uint64
	Addend uint64
}

func (f ExternalFixup) Encode(b []byte) {
	binary.LittleEndian.PutUint64(b[0:8], f.Name)
	b[8] = f.Type
	for i := 9; i < 16; i++ {
		b[i] = 0
	}
	binary.LittleEndian.PutUint64(b[16:24], f.Offset)
	binary.LittleEndian.PutUint64(b[24:32], f.Addend)
}

func DecodeExternalFixup(b []byte) ExternalFixup {
	return ExternalFixup{
		Name:   binary.LittleEndian.Uint64(b[0:8]),
		Type:   b[8],
		Offset: binary.LittleEndian.Uint64(b[16:24]),
		Addend: binary.LittleEndian.Uint64(b[24:32]),
	}
}

// CheckInternalOffset enforces the 32-bit range limit on internal
// fixups: a candidate offset that does not fit is a structural
// violation, not a silent truncation.
func CheckInternalOffset(offset uint64) error {
	if offset > math.MaxUint32 {
		return errors.Errorf("internal fixup offset %d exceeds 32-bit range", offset)
	}
	return nil
}
