package irhash

import (
	"github.com/llir/llvm/ir"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// HashGlobalVariable reduces g to its fingerprint. Linkage, visibility,
// DLL storage class, and source filename are deliberately excluded:
// cosmetic linkage differences must not produce duplicate fragments.
// Constness, thread-local mode, alignment, unnamed-addr, comdat, and the
// initializer all contribute.
func HashGlobalVariable(m *ir.Module, g *ir.Global) digest.Digest {
	h := newHasher()
	h.sink.Emit(digest.TagGlobalVarible)
	h.hashModuleHeader(m)

	h.hashType(g.ContentType)
	h.sink.Emit(digest.TagGVConstant)
	h.sink.Bool(g.Immutable)
	h.sink.Emit(digest.TagGVThreadLocalMode)
	h.sink.Byte(byte(g.TLSModel))
	h.sink.Emit(digest.TagGVAlignment)
	h.sink.Uint64(uint64(g.Align))
	h.sink.Emit(digest.TagGVUnnamedAddr)
	h.sink.Byte(byte(g.UnnamedAddr))

	if g.Comdat != nil {
		h.sink.Emit(digest.TagGVComdat)
		h.sink.String(g.Comdat.Name)
		h.sink.Byte(byte(g.Comdat.Kind))
	}

	// Named variables with a definitive initializer hash the initial
	// value; this also covers llvm.global_ctors and friends.
	if g.Name() != "" && g.Init != nil {
		h.sink.Emit(digest.TagGVInitValue)
		h.hashConstant(g.Init)
	}
	return h.sink.Final()
}
