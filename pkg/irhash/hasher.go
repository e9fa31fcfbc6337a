// Package irhash reduces LLVM IR globals to stable 128-bit fingerprints.
// Two functions whose control-flow graphs are isomorphic under a
// consistent renaming of anonymous values hash identically; cosmetic
// linkage differences on variables do not perturb the digest. The walk
// is deterministic by construction: every emission order follows the IR
// structure, never Go map iteration.
package irhash

import (
	"crypto/md5"
	"encoding/binary"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// hasher holds the per-computation state: the digest sink plus the two
// numbering tables. One hasher serves one global; it is discarded after
// the digest is emitted, so there is no process-wide cache to poison
// determinism.
type hasher struct {
	sink *digest.Sink

	// globalNumbers breaks cycles in constant graphs: a global with a
	// definitive initializer is numbered on first visit, and later
	// visits hash only the number.
	globalNumbers map[*ir.Global]uint64

	// localNumbers assigns stable small ints to values matched
	// structurally (SSA temporaries, arguments, blocks), on first
	// observation. Renaming them does not change the digest.
	localNumbers map[value.Value]uint64
}

func newHasher() *hasher {
	return &hasher{
		sink:          digest.NewSink(),
		globalNumbers: make(map[*ir.Global]uint64),
		localNumbers:  make(map[value.Value]uint64),
	}
}

// hashModuleHeader hashes the pieces of module context that feed every
// global's digest: data layout then target triple.
func (h *hasher) hashModuleHeader(m *ir.Module) {
	h.sink.Emit(digest.TagDatalayout)
	h.sink.String(m.DataLayout)
	h.sink.Emit(digest.TagTriple)
	h.sink.String(m.TargetTriple)
}

// globalGUID is the stable 64-bit identifier hashed in place of a
// revisited global's body.
func globalGUID(name string) uint64 {
	sum := md5.Sum([]byte(name))
	return binary.LittleEndian.Uint64(sum[:8])
}
