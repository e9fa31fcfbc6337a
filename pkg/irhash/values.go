package irhash

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// hashValue emits TagValue and dispatches: constants (globals included)
// go through the constant hash, inline asm through its own tagged block,
// and everything else (SSA temporaries, arguments, basic blocks) is
// assigned a local number on first observation. Matching is structural,
// so renaming or renumbering anonymous values never perturbs the digest.
func (h *hasher) hashValue(v value.Value) {
	h.sink.Emit(digest.TagValue)

	if c, ok := v.(constant.Constant); ok {
		h.hashConstant(c)
		return
	}
	if asm, ok := v.(*ir.InlineAsm); ok {
		h.hashInlineAsm(asm)
		return
	}

	n, seen := h.localNumbers[v]
	if !seen {
		n = uint64(len(h.localNumbers))
		h.localNumbers[v] = n
	}
	h.sink.Uint64(n)
}

func (h *hasher) hashInlineAsm(v *ir.InlineAsm) {
	h.sink.Emit(digest.TagInlineAsm)
	h.hashType(v.Type())
	h.sink.String(v.Asm)
	h.sink.String(v.Constraint)
	h.sink.Emit(digest.TagInlineAsmHasSideEffects)
	h.sink.Bool(v.SideEffect)
	h.sink.Emit(digest.TagInlineAsmIsAlignStack)
	h.sink.Bool(v.AlignStack)
	h.sink.Emit(digest.TagInlineAsmDialect)
	h.sink.Bool(v.IntelDialect)
}
