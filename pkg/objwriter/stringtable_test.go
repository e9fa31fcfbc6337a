package objwriter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringTableSentinel(t *testing.T) {
	st := NewStringTable()
	require.Equal(t, []byte{0}, st.Bytes())
	require.Equal(t, uint32(0), st.Insert(""))
}

func TestStringTableDedup(t *testing.T) {
	st := NewStringTable()
	a := st.Insert(".text")
	b := st.Insert(".symtab")
	require.Equal(t, a, st.Insert(".text"))
	require.NotEqual(t, a, b)

	// Offsets index into the encoded table.
	bytes := st.Bytes()
	require.Equal(t, ".text", string(bytes[a:a+5]))
	require.Equal(t, byte(0), bytes[a+5])
}
