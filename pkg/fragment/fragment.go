package fragment

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// SectionInput is the caller-supplied view passed to MakeUnique: the
// payload bytes plus the fixups that apply to them, for one section kind.
// MakeUnique copies these into one owned buffer; the inputs stay with
// the caller.
type SectionInput struct {
	Kind      SectionKind
	Data      []byte
	IFixups   []InternalFixup
	XFixups   []ExternalFixup
	Alignment uint32 // power of two
}

// fixedSectionHeaderSize is the fixed-size record preceding each
// section's payload inside a Fragment's single buffer: alignment,
// data length, internal-fixup count, external-fixup count.
const fixedSectionHeaderSize = 4 + 4 + 4 + 4

// Fragment is an immutable, single-buffer packed representation of a
// compiled section group: [sparse-array header | section header | payload
// | ifixups | xfixups]* in section-kind order. Once
// returned by MakeUnique it must not be mutated; accessor methods hand
// back slices that alias the shared buffer.
type Fragment struct {
	buf     []byte
	offsets [numSectionKinds]int32 // -1 = absent; sparse-array header
}

// MakeUnique computes the total size, allocates once, and lays out each
// section in the order given, recording each section's offset into the
// sparse array. Each section kind may appear at most once.
func MakeUnique(sections []SectionInput) (*Fragment, error) {
	seen := make(map[SectionKind]bool, len(sections))
	for _, s := range sections {
		if seen[s.Kind] {
			return nil, errors.Errorf("fragment: section kind %s appears more than once", s.Kind)
		}
		seen[s.Kind] = true
		for _, fx := range s.IFixups {
			if err := CheckInternalOffset(uint64(fx.Offset)); err != nil {
				return nil, err
			}
		}
	}

	f := &Fragment{}
	for i := range f.offsets {
		f.offsets[i] = -1
	}

	// First pass: compute total size.
	total := 0
	for _, s := range sections {
		total += sectionBlockSize(s)
	}
	f.buf = make([]byte, total)

	// Second pass: encode each section's block and record its offset.
	cursor := 0
	for _, s := range sections {
		f.offsets[s.Kind] = int32(cursor)
		n := encodeSectionBlock(f.buf[cursor:], s)
		cursor += n
	}
	return f, nil
}

func sectionBlockSize(s SectionInput) int {
	return fixedSectionHeaderSize + len(s.Data) + len(s.IFixups)*InternalFixupSize + len(s.XFixups)*ExternalFixupSize
}

// encodeSectionBlock writes kind §header + payload + fixups into b and
// returns the number of bytes consumed.
func encodeSectionBlock(b []byte, s SectionInput) int {
	binary.LittleEndian.PutUint32(b[0:4], uint32(s.Alignment))
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(s.Data)))
	binary.LittleEndian.PutUint32(b[8:12], uint32(len(s.IFixups)))
	binary.LittleEndian.PutUint32(b[12:16], uint32(len(s.XFixups)))
	off := fixedSectionHeaderSize
	copy(b[off:off+len(s.Data)], s.Data)
	off += len(s.Data)
	for _, fx := range s.IFixups {
		fx.Encode(b[off : off+InternalFixupSize])
		off += InternalFixupSize
	}
	for _, fx := range s.XFixups {
		fx.Encode(b[off : off+ExternalFixupSize])
		off += ExternalFixupSize
	}
	return off
}

// View is a read-only accessor onto one of a Fragment's sections.
type View struct {
	Kind      SectionKind
	Alignment uint32
	data      []byte
	ifixups   []byte
	xfixups   []byte
	numI      int
	numX      int
}

func (v *View) Data() []byte { return v.data }

func (v *View) IFixups() []InternalFixup {
	out := make([]InternalFixup, v.numI)
	for i := 0; i < v.numI; i++ {
		out[i] = DecodeInternalFixup(v.ifixups[i*InternalFixupSize:])
	}
	return out
}

func (v *View) XFixups() []ExternalFixup {
	out := make([]ExternalFixup, v.numX)
	for i := 0; i < v.numX; i++ {
		out[i] = DecodeExternalFixup(v.xfixups[i*ExternalFixupSize:])
	}
	return out
}

// Section returns a view onto the fragment's section of the given kind,
// or ok=false if the fragment has no such section (the sparse-array entry
// is absent).
func (f *Fragment) Section(kind SectionKind) (*View, bool) {
	off := f.offsets[kind]
	if off < 0 {
		return nil, false
	}
	b := f.buf[off:]
	align := binary.LittleEndian.Uint32(b[0:4])
	dataLen := binary.LittleEndian.Uint32(b[4:8])
	numI := binary.LittleEndian.Uint32(b[8:12])
	numX := binary.LittleEndian.Uint32(b[12:16])

	cursor := fixedSectionHeaderSize
	data := b[cursor : cursor+int(dataLen)]
	cursor += int(dataLen)
	ifixups := b[cursor : cursor+int(numI)*InternalFixupSize]
	cursor += int(numI) * InternalFixupSize
	xfixups := b[cursor : cursor+int(numX)*ExternalFixupSize]

	return &View{
		Kind:      kind,
		Alignment: align,
		data:      data,
		ifixups:   ifixups,
		xfixups:   xfixups,
		numI:      int(numI),
		numX:      int(numX),
	}, true
}

// Kinds returns the section kinds present in the fragment, in enum order.
func (f *Fragment) Kinds() []SectionKind {
	var out []SectionKind
	for k := SectionKind(0); int(k) < numSectionKinds; k++ {
		if f.offsets[k] >= 0 {
			out = append(out, k)
		}
	}
	return out
}

// Size reports the fragment's total encoded size in bytes, for store
// accounting.
func (f *Fragment) Size() int { return len(f.buf) }

// Marshal serializes the fragment's sparse-array header and buffer for
// storage (e.g. as a bbolt value in pkg/boltrepo). The encoding is
// [numSectionKinds * int32 offsets][buf...].
func (f *Fragment) Marshal() []byte {
	out := make([]byte, numSectionKinds*4+len(f.buf))
	for i, off := range f.offsets {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], uint32(off))
	}
	copy(out[numSectionKinds*4:], f.buf)
	return out
}

// Unmarshal reverses Marshal.
func Unmarshal(b []byte) (*Fragment, error) {
	headerSize := numSectionKinds * 4
	if len(b) < headerSize {
		return nil, errors.New("fragment: truncated encoding")
	}
	f := &Fragment{buf: append([]byte(nil), b[headerSize:]...)}
	for i := range f.offsets {
		f.offsets[i] = int32(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	return f, nil
}
