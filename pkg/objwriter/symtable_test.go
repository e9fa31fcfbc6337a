package objwriter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rgal/llvm-project-prepo/pkg/fragment"
	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

func TestSymbolTableLocalFirstOrdering(t *testing.T) {
	st := NewSymbolTable(NewStringTable())
	st.Define("global1", nil, 0, 0, repository.External)
	st.Define("local1", nil, 0, 0, repository.Internal)
	st.Define("weak1", nil, 0, 0, repository.WeakAny)
	st.Define("local2", nil, 0, 0, repository.Private)
	st.Sort()

	sorted := st.Sorted()
	require.Len(t, sorted, 4)
	require.Equal(t, "local1", sorted[0].Name)
	require.Equal(t, "local2", sorted[1].Name)

	// Indices start at 1: entry 0 of the emitted table is the null
	// symbol, which counts as local.
	require.Equal(t, uint32(3), st.FirstNonLocal())

	idx, ok := st.IndexOf("local1")
	require.True(t, ok)
	require.Equal(t, uint32(1), idx)
}

func TestSymbolTableFirstDefinitionWins(t *testing.T) {
	strings := NewStringTable()
	st := NewSymbolTable(strings)
	sec := newOutputSection(SectionID{Name: ".text", Discriminator: "foo"}, kindInfo[fragment.Text])
	s1 := st.Define("foo", sec, 0, 4, repository.LinkOnce)
	s2 := st.Define("foo", sec, 8, 4, repository.LinkOnce)
	require.Same(t, s1, s2)
	require.Equal(t, uint64(0), s1.Offset)
}

func TestSymbolTableAllLocal(t *testing.T) {
	st := NewSymbolTable(NewStringTable())
	st.Define("a", nil, 0, 0, repository.Internal)
	st.Sort()
	require.Equal(t, uint32(2), st.FirstNonLocal())
}
