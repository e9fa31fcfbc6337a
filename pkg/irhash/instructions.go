package irhash

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/metadata"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// Opcode bytes for the closed instruction dispatch. Not open to
// extension: an opcode outside this set is a producer bug.
const (
	opRet byte = iota + 1
	opBr
	opCondBr
	opSwitch
	opIndirectBr
	opInvoke
	opResume
	opUnreachable
	opFNeg
	opAdd
	opFAdd
	opSub
	opFSub
	opMul
	opFMul
	opUDiv
	opSDiv
	opFDiv
	opURem
	opSRem
	opFRem
	opShl
	opLShr
	opAShr
	opAnd
	opOr
	opXor
	opAlloca
	opLoad
	opStore
	opFence
	opCmpXchg
	opAtomicRMW
	opGetElementPtr
	opTrunc
	opZExt
	opSExt
	opFPTrunc
	opFPExt
	opFPToUI
	opFPToSI
	opUIToFP
	opSIToFP
	opPtrToInt
	opIntToPtr
	opBitCast
	opAddrSpaceCast
	opICmp
	opFCmp
	opPhi
	opSelect
	opFreeze
	opCall
	opExtractElement
	opInsertElement
	opShuffleVector
	opExtractValue
	opInsertValue
)

// hashInstruction emits TagInstruction, the opcode, the result type, the
// subclass-optional-data word, then each operand's type and value, and
// finally the instruction-kind-specific tail under its own sub-tag.
// Terminators flow through here too: they are hashed as the last
// instruction of their block.
func (h *hasher) hashInstruction(inst interface{}) {
	h.sink.Emit(digest.TagInstruction)
	h.sink.Uint64(uint64(opcodeOf(inst)))
	h.hashType(resultType(inst))
	h.sink.Uint64(subclassData(inst))

	for _, op := range operandsOf(inst) {
		h.hashType(op.Type())
		h.hashValue(op)
	}

	switch v := inst.(type) {
	case *ir.InstGetElementPtr:
		h.sink.Emit(digest.TagGetElementPtrInst)
		h.hashType(v.ElemType)
	case *ir.InstAlloca:
		h.sink.Emit(digest.TagAllocaInst)
		h.hashType(v.ElemType)
		h.sink.Uint64(uint64(v.Align))
	case *ir.InstLoad:
		h.sink.Emit(digest.TagLoadInst)
		h.sink.Bool(v.Volatile)
		h.sink.Uint64(uint64(v.Align))
		h.hashOrdering(v.Ordering)
		h.sink.String(v.SyncScope)
		h.hashRangeMetadata(v.Metadata)
	case *ir.InstStore:
		h.sink.Emit(digest.TagStoreInst)
		h.sink.Bool(v.Volatile)
		h.sink.Uint64(uint64(v.Align))
		h.hashOrdering(v.Ordering)
		h.sink.String(v.SyncScope)
	case *ir.InstICmp:
		h.sink.Emit(digest.TagCmpInst)
		h.sink.Byte(byte(v.Pred))
	case *ir.InstFCmp:
		h.sink.Emit(digest.TagCmpInst)
		h.sink.Byte(byte(v.Pred))
	case *ir.InstCall:
		h.sink.Emit(digest.TagCallInst)
		h.sink.Bool(v.Tail != enum.TailNone)
		h.hashCallAttributes(v.FuncAttrs, v.ReturnAttrs)
		h.hashOperandBundles(v.OperandBundles)
		h.hashRangeMetadata(v.Metadata)
		if callee, ok := v.Callee.(*ir.Func); ok {
			h.sink.String(callee.Name())
		}
	case *ir.TermInvoke:
		h.sink.Emit(digest.TagInvokeInst)
		h.sink.Uint64(uint64(v.CallingConv))
		h.hashCallAttributes(v.FuncAttrs, v.ReturnAttrs)
		h.hashOperandBundles(v.OperandBundles)
		h.hashRangeMetadata(v.Metadata)
		if callee, ok := v.Invokee.(*ir.Func); ok {
			h.sink.String(callee.Name())
		}
	case *ir.InstInsertValue:
		h.sink.Emit(digest.TagInsertValueInst)
		for _, index := range v.Indices {
			h.sink.Uint64(index)
		}
	case *ir.InstExtractValue:
		h.sink.Emit(digest.TagExtractValueInst)
		for _, index := range v.Indices {
			h.sink.Uint64(index)
		}
	case *ir.InstFence:
		h.sink.Emit(digest.TagFenceInst)
		h.hashOrdering(v.Ordering)
		h.sink.String(v.SyncScope)
	case *ir.InstCmpXchg:
		h.sink.Emit(digest.TagAtomicCmpXchgInst)
		h.sink.Bool(v.Volatile)
		h.sink.Bool(v.Weak)
		h.hashOrdering(v.SuccessOrdering)
		h.hashOrdering(v.FailureOrdering)
		h.sink.String(v.SyncScope)
	case *ir.InstAtomicRMW:
		h.sink.Emit(digest.TagAtomicRMWInst)
		h.sink.Byte(byte(v.Op))
		h.sink.Bool(v.Volatile)
		h.hashOrdering(v.Ordering)
		h.sink.String(v.SyncScope)
	case *ir.InstPhi:
		h.sink.Emit(digest.TagPHINode)
		// Incoming values are covered by the operand loop; the blocks
		// they arrive from must match too.
		for _, inc := range v.Incs {
			h.hashValue(inc.Pred)
		}
	}
}

func (h *hasher) hashOrdering(o enum.AtomicOrdering) {
	h.sink.Emit(digest.TagAtomicOrdering)
	h.sink.Byte(byte(o))
}

func (h *hasher) hashOperandBundles(bundles []*ir.OperandBundle) {
	h.sink.Emit(digest.TagOperandBundles)
	for _, b := range bundles {
		h.sink.String(b.Tag)
		// Bundle inputs already feed the digest through the operand
		// loop of their producing instructions; only the arity matters
		// here.
		h.sink.Uint64(uint64(len(b.Inputs)))
	}
}

// hashRangeMetadata folds an attached !range tuple into the digest: a
// sequence of integer bounds.
func (h *hasher) hashRangeMetadata(attachments []*metadata.Attachment) {
	for _, att := range attachments {
		if att.Name != "range" {
			continue
		}
		h.sink.Emit(digest.TagRangeMetadata)
		tuple, ok := att.Node.(*metadata.Tuple)
		if !ok {
			continue
		}
		for _, field := range tuple.Fields {
			v, ok := field.(*metadata.Value)
			if !ok {
				continue
			}
			if bound, ok := v.Value.(*constant.Int); ok {
				h.sink.APInt(bound.X)
			}
		}
	}
}

func opcodeOf(inst interface{}) byte {
	switch inst.(type) {
	case *ir.TermRet:
		return opRet
	case *ir.TermBr:
		return opBr
	case *ir.TermCondBr:
		return opCondBr
	case *ir.TermSwitch:
		return opSwitch
	case *ir.TermIndirectBr:
		return opIndirectBr
	case *ir.TermInvoke:
		return opInvoke
	case *ir.TermResume:
		return opResume
	case *ir.TermUnreachable:
		return opUnreachable
	case *ir.InstFNeg:
		return opFNeg
	case *ir.InstAdd:
		return opAdd
	case *ir.InstFAdd:
		return opFAdd
	case *ir.InstSub:
		return opSub
	case *ir.InstFSub:
		return opFSub
	case *ir.InstMul:
		return opMul
	case *ir.InstFMul:
		return opFMul
	case *ir.InstUDiv:
		return opUDiv
	case *ir.InstSDiv:
		return opSDiv
	case *ir.InstFDiv:
		return opFDiv
	case *ir.InstURem:
		return opURem
	case *ir.InstSRem:
		return opSRem
	case *ir.InstFRem:
		return opFRem
	case *ir.InstShl:
		return opShl
	case *ir.InstLShr:
		return opLShr
	case *ir.InstAShr:
		return opAShr
	case *ir.InstAnd:
		return opAnd
	case *ir.InstOr:
		return opOr
	case *ir.InstXor:
		return opXor
	case *ir.InstAlloca:
		return opAlloca
	case *ir.InstLoad:
		return opLoad
	case *ir.InstStore:
		return opStore
	case *ir.InstFence:
		return opFence
	case *ir.InstCmpXchg:
		return opCmpXchg
	case *ir.InstAtomicRMW:
		return opAtomicRMW
	case *ir.InstGetElementPtr:
		return opGetElementPtr
	case *ir.InstTrunc:
		return opTrunc
	case *ir.InstZExt:
		return opZExt
	case *ir.InstSExt:
		return opSExt
	case *ir.InstFPTrunc:
		return opFPTrunc
	case *ir.InstFPExt:
		return opFPExt
	case *ir.InstFPToUI:
		return opFPToUI
	case *ir.InstFPToSI:
		return opFPToSI
	case *ir.InstUIToFP:
		return opUIToFP
	case *ir.InstSIToFP:
		return opSIToFP
	case *ir.InstPtrToInt:
		return opPtrToInt
	case *ir.InstIntToPtr:
		return opIntToPtr
	case *ir.InstBitCast:
		return opBitCast
	case *ir.InstAddrSpaceCast:
		return opAddrSpaceCast
	case *ir.InstICmp:
		return opICmp
	case *ir.InstFCmp:
		return opFCmp
	case *ir.InstPhi:
		return opPhi
	case *ir.InstSelect:
		return opSelect
	case *ir.InstFreeze:
		return opFreeze
	case *ir.InstCall:
		return opCall
	case *ir.InstExtractElement:
		return opExtractElement
	case *ir.InstInsertElement:
		return opInsertElement
	case *ir.InstShuffleVector:
		return opShuffleVector
	case *ir.InstExtractValue:
		return opExtractValue
	case *ir.InstInsertValue:
		return opInsertValue
	default:
		panic(fmt.Sprintf("irhash: unknown instruction %T", inst))
	}
}

// resultType returns the instruction's result type; instructions that
// produce no value (store, fence, terminators without results) hash void.
func resultType(inst interface{}) types.Type {
	if v, ok := inst.(value.Value); ok {
		return v.Type()
	}
	return types.Void
}

// subclassData folds the wrap/exact flags that change an operation's
// semantics without changing its operands.
func subclassData(inst interface{}) uint64 {
	switch v := inst.(type) {
	case *ir.InstAdd:
		return overflowBits(v.OverflowFlags)
	case *ir.InstSub:
		return overflowBits(v.OverflowFlags)
	case *ir.InstMul:
		return overflowBits(v.OverflowFlags)
	case *ir.InstShl:
		return overflowBits(v.OverflowFlags)
	case *ir.InstUDiv:
		return exactBit(v.Exact)
	case *ir.InstSDiv:
		return exactBit(v.Exact)
	case *ir.InstLShr:
		return exactBit(v.Exact)
	case *ir.InstAShr:
		return exactBit(v.Exact)
	case *ir.InstGetElementPtr:
		if v.InBounds {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func overflowBits(flags []enum.OverflowFlag) uint64 {
	var bits uint64
	for _, f := range flags {
		switch f {
		case enum.OverflowFlagNUW:
			bits |= 1
		case enum.OverflowFlagNSW:
			bits |= 2
		}
	}
	return bits
}

func exactBit(exact bool) uint64 {
	if exact {
		return 1
	}
	return 0
}

// operandsOf lists the value operands hashed by the generic loop, in a
// fixed per-kind order. Successor blocks count as operands: they hash by
// local number, which is what makes isomorphic CFGs digest identically.
func operandsOf(inst interface{}) []value.Value {
	switch v := inst.(type) {
	case *ir.TermRet:
		if v.X != nil {
			return []value.Value{v.X}
		}
		return nil
	case *ir.TermBr:
		return []value.Value{v.Target}
	case *ir.TermCondBr:
		return []value.Value{v.Cond, v.TargetTrue, v.TargetFalse}
	case *ir.TermSwitch:
		ops := []value.Value{v.X}
		for _, c := range v.Cases {
			ops = append(ops, c.X)
		}
		return append(ops, blockValues(v)...)
	case *ir.TermIndirectBr:
		return append([]value.Value{v.Addr}, blockValues(v)...)
	case *ir.TermInvoke:
		ops := []value.Value{v.Invokee}
		ops = append(ops, v.Args...)
		return append(ops, blockValues(v)...)
	case *ir.TermResume:
		return []value.Value{v.X}
	case *ir.TermUnreachable:
		return nil
	case *ir.InstFNeg:
		return []value.Value{v.X}
	case *ir.InstAdd:
		return []value.Value{v.X, v.Y}
	case *ir.InstFAdd:
		return []value.Value{v.X, v.Y}
	case *ir.InstSub:
		return []value.Value{v.X, v.Y}
	case *ir.InstFSub:
		return []value.Value{v.X, v.Y}
	case *ir.InstMul:
		return []value.Value{v.X, v.Y}
	case *ir.InstFMul:
		return []value.Value{v.X, v.Y}
	case *ir.InstUDiv:
		return []value.Value{v.X, v.Y}
	case *ir.InstSDiv:
		return []value.Value{v.X, v.Y}
	case *ir.InstFDiv:
		return []value.Value{v.X, v.Y}
	case *ir.InstURem:
		return []value.Value{v.X, v.Y}
	case *ir.InstSRem:
		return []value.Value{v.X, v.Y}
	case *ir.InstFRem:
		return []value.Value{v.X, v.Y}
	case *ir.InstShl:
		return []value.Value{v.X, v.Y}
	case *ir.InstLShr:
		return []value.Value{v.X, v.Y}
	case *ir.InstAShr:
		return []value.Value{v.X, v.Y}
	case *ir.InstAnd:
		return []value.Value{v.X, v.Y}
	case *ir.InstOr:
		return []value.Value{v.X, v.Y}
	case *ir.InstXor:
		return []value.Value{v.X, v.Y}
	case *ir.InstAlloca:
		if v.NElems != nil {
			return []value.Value{v.NElems}
		}
		return nil
	case *ir.InstLoad:
		return []value.Value{v.Src}
	case *ir.InstStore:
		return []value.Value{v.Src, v.Dst}
	case *ir.InstFence:
		return nil
	case *ir.InstCmpXchg:
		return []value.Value{v.Ptr, v.Cmp, v.New}
	case *ir.InstAtomicRMW:
		return []value.Value{v.Dst, v.X}
	case *ir.InstGetElementPtr:
		return append([]value.Value{v.Src}, v.Indices...)
	case *ir.InstTrunc:
		return []value.Value{v.From}
	case *ir.InstZExt:
		return []value.Value{v.From}
	case *ir.InstSExt:
		return []value.Value{v.From}
	case *ir.InstFPTrunc:
		return []value.Value{v.From}
	case *ir.InstFPExt:
		return []value.Value{v.From}
	case *ir.InstFPToUI:
		return []value.Value{v.From}
	case *ir.InstFPToSI:
		return []value.Value{v.From}
	case *ir.InstUIToFP:
		return []value.Value{v.From}
	case *ir.InstSIToFP:
		return []value.Value{v.From}
	case *ir.InstPtrToInt:
		return []value.Value{v.From}
	case *ir.InstIntToPtr:
		return []value.Value{v.From}
	case *ir.InstBitCast:
		return []value.Value{v.From}
	case *ir.InstAddrSpaceCast:
		return []value.Value{v.From}
	case *ir.InstICmp:
		return []value.Value{v.X, v.Y}
	case *ir.InstFCmp:
		return []value.Value{v.X, v.Y}
	case *ir.InstPhi:
		ops := make([]value.Value, 0, len(v.Incs))
		for _, inc := range v.Incs {
			ops = append(ops, inc.X)
		}
		return ops
	case *ir.InstSelect:
		return []value.Value{v.Cond, v.ValueTrue, v.ValueFalse}
	case *ir.InstFreeze:
		return []value.Value{v.X}
	case *ir.InstCall:
		return append(append([]value.Value{}, v.Args...), v.Callee)
	case *ir.InstExtractElement:
		return []value.Value{v.X, v.Index}
	case *ir.InstInsertElement:
		return []value.Value{v.X, v.Elem, v.Index}
	case *ir.InstShuffleVector:
		return []value.Value{v.X, v.Y, v.Mask}
	case *ir.InstExtractValue:
		return []value.Value{v.X}
	case *ir.InstInsertValue:
		return []value.Value{v.X, v.Elem}
	default:
		panic(fmt.Sprintf("irhash: unknown instruction %T", inst))
	}
}

func blockValues(term ir.Terminator) []value.Value {
	succs := term.Succs()
	out := make([]value.Value, len(succs))
	for i, b := range succs {
		out[i] = b
	}
	return out
}
