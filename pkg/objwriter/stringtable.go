package objwriter

// StringTable is an insert-ordered, append-only, deduplicating string
// interner. It always begins with a leading null byte for the
// empty-string sentinel.
type StringTable struct {
	buf     []byte
	offsets map[string]uint32
}

// NewStringTable returns a StringTable pre-seeded with the empty-string
// sentinel at offset 0.
func NewStringTable() *StringTable {
	return &StringTable{
		buf:     []byte{0},
		offsets: map[string]uint32{"": 0},
	}
}

// Insert returns the byte offset of s within the table, deduplicating
// exact matches.
func (t *StringTable) Insert(s string) uint32 {
	if off, ok := t.offsets[s]; ok {
		return off
	}
	off := uint32(len(t.buf))
	t.buf = append(t.buf, s...)
	t.buf = append(t.buf, 0)
	t.offsets[s] = off
	return off
}

// Bytes returns the table's encoded contents.
func (t *StringTable) Bytes() []byte { return t.buf }

// Size returns the table's current length in bytes.
func (t *StringTable) Size() uint64 { return uint64(len(t.buf)) }
