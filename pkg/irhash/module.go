package irhash

import (
	"github.com/llir/llvm/ir"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// GlobalDigest pairs one global's name with its fingerprint. For aliases
// the digest is the 64-bit identifier widened into the low half, since
// that is all an alias hash carries.
type GlobalDigest struct {
	Name   string
	Digest digest.Digest
}

// HashModule hashes every function, global variable, and alias of m, in
// module order. Each global gets a fresh hasher: nothing is shared
// between computations, so callers may hash distinct globals from
// distinct goroutines by splitting the module themselves.
func HashModule(m *ir.Module) []GlobalDigest {
	out := make([]GlobalDigest, 0, len(m.Funcs)+len(m.Globals)+len(m.Aliases))
	for _, f := range m.Funcs {
		out = append(out, GlobalDigest{Name: f.Name(), Digest: HashFunction(m, f)})
	}
	for _, g := range m.Globals {
		out = append(out, GlobalDigest{Name: g.Name(), Digest: HashGlobalVariable(m, g)})
	}
	for _, a := range m.Aliases {
		var d digest.Digest
		low := HashAlias(a)
		for i := 15; i >= 8; i-- {
			d[i] = byte(low)
			low >>= 8
		}
		out = append(out, GlobalDigest{Name: a.Name(), Digest: d})
	}
	return out
}
