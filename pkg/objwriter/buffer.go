package objwriter

import (
	"bytes"
	"encoding/binary"
)

// emitBuffer accumulates the whole object file in memory before it is
// written out in one shot. The ELF header and the group/strtab/symtab
// section headers are patched in place once their contents are known,
// instead of streaming and seeking back.
type emitBuffer struct {
	b []byte
}

func (w *emitBuffer) tell() uint64 { return uint64(len(w.b)) }

func (w *emitBuffer) write(p []byte) {
	w.b = append(w.b, p...)
}

// writeStruct appends v in little-endian layout. v must be a fixed-size
// value acceptable to encoding/binary.
func (w *emitBuffer) writeStruct(v interface{}) {
	var tmp bytes.Buffer
	_ = binary.Write(&tmp, binary.LittleEndian, v)
	w.b = append(w.b, tmp.Bytes()...)
}

// patchStruct overwrites bytes starting at off with v's little-endian
// layout. The region must already exist.
func (w *emitBuffer) patchStruct(off uint64, v interface{}) {
	var tmp bytes.Buffer
	_ = binary.Write(&tmp, binary.LittleEndian, v)
	copy(w.b[off:], tmp.Bytes())
}

// alignTo pads with zero bytes until the write position is a multiple of
// align (which must be a power of two; align 0 is treated as 1).
func (w *emitBuffer) alignTo(align uint64) {
	if align <= 1 {
		return
	}
	rem := uint64(len(w.b)) & (align - 1)
	if rem != 0 {
		w.b = append(w.b, make([]byte, align-rem)...)
	}
}

func (w *emitBuffer) bytes() []byte { return w.b }
