package irhash

import (
	"github.com/llir/llvm/ir"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// HashAlias reduces an alias to the low 64 bits of its digest. Unlike
// variables, aliases hash their linkage, visibility, and DLL storage
// class: an alias is only a name binding, so everything that affects how
// the name resolves is significant. Alias digests serve as lightweight
// identifiers, not store keys, hence the truncation.
func HashAlias(a *ir.Alias) uint64 {
	h := newHasher()
	h.sink.Emit(digest.TagGlobalAlias)
	h.hashType(a.Typ.ElemType)
	h.sink.Byte(byte(a.Linkage))
	h.sink.Emit(digest.TagGVVisibility)
	h.sink.Byte(byte(a.Visibility))
	h.sink.Emit(digest.TagGVThreadLocalMode)
	h.sink.Byte(byte(a.TLSModel))
	h.sink.Emit(digest.TagGVAlignment)
	h.sink.Uint64(0) // aliases carry no alignment of their own
	h.sink.Emit(digest.TagGVUnnamedAddr)
	h.sink.Byte(byte(a.UnnamedAddr))
	h.sink.Emit(digest.TagGVDLLStorageClass)
	h.sink.Byte(byte(a.DLLStorageClass))

	h.hashConstant(a.Aliasee)
	return h.sink.Final().Low64()
}
