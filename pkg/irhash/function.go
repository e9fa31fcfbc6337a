package irhash

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// HashFunction reduces f to its fingerprint: module header, signature,
// then the basic blocks in CFG order from the entry block. Two functions
// whose CFGs are isomorphic under a consistent renaming of anonymous
// values, with matching signatures and data layouts, hash identically.
func HashFunction(m *ir.Module, f *ir.Func) digest.Digest {
	h := newHasher()
	h.sink.Emit(digest.TagGlobalFunction)
	h.hashModuleHeader(m)
	h.hashSignature(f)

	// Depth-first by successor with a visited set. Blocks no terminator
	// reaches never enter the worklist: unreachable code cannot affect
	// the generated machine code, so it must not affect the digest.
	if len(f.Blocks) > 0 {
		entry := f.Blocks[0]
		worklist := []*ir.Block{entry}
		visited := map[*ir.Block]bool{entry: true}
		for len(worklist) > 0 {
			bb := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			h.hashValue(bb)
			h.hashBasicBlock(bb)
			for _, succ := range bb.Term.Succs() {
				if !visited[succ] {
					visited[succ] = true
					worklist = append(worklist, succ)
				}
			}
		}
	}
	return h.sink.Final()
}

// hashSignature covers everything callers can observe without entering
// the body: attributes, GC, section, variadic flag, calling convention,
// function type, and the arguments in declaration order.
//
// The calling convention is emitted when the function has parameters or
// returns void. The asymmetric condition is deliberate, inherited
// behavior; callers depend on the digests it produces, so it is kept
// bit-for-bit and pinned by a test.
func (h *hasher) hashSignature(f *ir.Func) {
	h.sink.Emit(digest.TagSignature)
	h.hashFuncAttributes(f)
	if f.GC != "" {
		h.sink.Emit(digest.TagSignatureGC)
		h.sink.String(f.GC)
	}
	if f.Section != "" {
		h.sink.Emit(digest.TagSignatureSection)
		h.sink.String(f.Section)
	}
	h.sink.Emit(digest.TagSignatureVarArg)
	h.sink.Bool(f.Sig.Variadic)

	if len(f.Sig.Params) != 0 || types.Equal(f.Sig.RetType, types.Void) {
		h.sink.Emit(digest.TagSignatureCallingConv)
		h.sink.Uint64(uint64(f.CallingConv))
	}

	h.hashType(f.Sig)
	h.sink.Emit(digest.TagSignatureArg)
	for _, param := range f.Params {
		h.hashValue(param)
	}
}

// hashBasicBlock hashes the block's instructions in order, terminator
// included.
func (h *hasher) hashBasicBlock(bb *ir.Block) {
	h.sink.Emit(digest.TagBasicBlock)
	for _, inst := range bb.Insts {
		h.hashInstruction(inst)
	}
	h.hashInstruction(bb.Term)
}
