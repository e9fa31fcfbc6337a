package irhash

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/require"
)

func newIntGlobal(m *ir.Module, name string, v int64) *ir.Global {
	return m.NewGlobalDef(name, constant.NewInt(types.I32, v))
}

// Cosmetic linkage properties are excluded from the digest; properties
// that change the emitted data are not.
func TestGlobalHashLinkageIgnorance(t *testing.T) {
	m1 := newTestModule()
	g1 := newIntGlobal(m1, "g", 42)
	base := HashGlobalVariable(m1, g1)

	// Visibility and DLL storage class do not matter.
	m2 := newTestModule()
	g2 := newIntGlobal(m2, "g", 42)
	g2.Visibility = enum.VisibilityHidden
	g2.DLLStorageClass = enum.DLLStorageClassDLLExport
	require.Equal(t, base, HashGlobalVariable(m2, g2))

	// Linkage does not matter either.
	m3 := newTestModule()
	g3 := newIntGlobal(m3, "g", 42)
	g3.Linkage = enum.LinkageInternal
	require.Equal(t, base, HashGlobalVariable(m3, g3))

	// Constness, thread-local mode, alignment, initializer, and comdat
	// all matter.
	m4 := newTestModule()
	g4 := newIntGlobal(m4, "g", 42)
	g4.Immutable = true
	require.NotEqual(t, base, HashGlobalVariable(m4, g4))

	m5 := newTestModule()
	g5 := newIntGlobal(m5, "g", 42)
	g5.TLSModel = enum.TLSModelLocalDynamic
	require.NotEqual(t, base, HashGlobalVariable(m5, g5))

	m6 := newTestModule()
	g6 := newIntGlobal(m6, "g", 42)
	g6.Align = 16
	require.NotEqual(t, base, HashGlobalVariable(m6, g6))

	m7 := newTestModule()
	g7 := newIntGlobal(m7, "g", 43)
	require.NotEqual(t, base, HashGlobalVariable(m7, g7))

	m8 := newTestModule()
	g8 := newIntGlobal(m8, "g", 42)
	g8.Comdat = &ir.ComdatDef{Name: "g", Kind: enum.SelectionKindAny}
	require.NotEqual(t, base, HashGlobalVariable(m8, g8))
}

// A global whose initializer refers back to itself digests in bounded
// time: the revisit hashes the recorded number, not the body.
func TestGlobalHashCyclicInitializer(t *testing.T) {
	m := newTestModule()
	g := m.NewGlobalDef("g", constant.NewNull(types.NewPointer(types.I8)))
	g.Init = g

	first := HashGlobalVariable(m, g)
	require.Equal(t, first, HashGlobalVariable(m, g))

	// A plain null initializer of the same type digests differently.
	m2 := newTestModule()
	g2 := m2.NewGlobalDef("g", constant.NewNull(types.NewPointer(types.I8)))
	g2.ContentType = g.ContentType
	require.NotEqual(t, first, HashGlobalVariable(m2, g2))
}

// Two globals referencing each other terminate as well.
func TestGlobalHashMutualCycle(t *testing.T) {
	m := newTestModule()
	a := m.NewGlobalDef("a", constant.NewNull(types.NewPointer(types.I8)))
	b := m.NewGlobalDef("b", constant.NewNull(types.NewPointer(types.I8)))
	a.Init = b
	b.Init = a

	da := HashGlobalVariable(m, a)
	db := HashGlobalVariable(m, b)
	require.Equal(t, da, HashGlobalVariable(m, a))
	require.NotEqual(t, da, db)
}

func TestGlobalHashAggregateInitializer(t *testing.T) {
	m1 := newTestModule()
	arr1 := constant.NewCharArrayFromString("hello\x00")
	g1 := m1.NewGlobalDef("s", arr1)

	m2 := newTestModule()
	arr2 := constant.NewCharArrayFromString("hello\x00")
	g2 := m2.NewGlobalDef("s", arr2)
	require.Equal(t, HashGlobalVariable(m1, g1), HashGlobalVariable(m2, g2))

	m3 := newTestModule()
	arr3 := constant.NewCharArrayFromString("hellp\x00")
	g3 := m3.NewGlobalDef("s", arr3)
	require.NotEqual(t, HashGlobalVariable(m1, g1), HashGlobalVariable(m3, g3))
}

// Aliases hash their linkage, unlike variables: an alias is only a name
// binding.
func TestAliasHash(t *testing.T) {
	m1 := newTestModule()
	t1 := newIntGlobal(m1, "target", 1)
	a1 := m1.NewAlias("a", t1)

	m2 := newTestModule()
	t2 := newIntGlobal(m2, "target", 1)
	a2 := m2.NewAlias("a", t2)
	require.Equal(t, HashAlias(a1), HashAlias(a2))

	m3 := newTestModule()
	t3 := newIntGlobal(m3, "target", 1)
	a3 := m3.NewAlias("a", t3)
	a3.Linkage = enum.LinkageInternal
	require.NotEqual(t, HashAlias(a1), HashAlias(a3))
}

func TestHashModuleCoversAllGlobals(t *testing.T) {
	m := newTestModule()
	addOne(m, "f", "", 1)
	g := newIntGlobal(m, "g", 42)
	m.NewAlias("ga", g)

	digests := HashModule(m)
	require.Len(t, digests, 3)
	names := []string{digests[0].Name, digests[1].Name, digests[2].Name}
	require.Equal(t, []string{"f", "g", "ga"}, names)
	for _, gd := range digests {
		require.Len(t, gd.Digest.String(), 32)
	}
}
