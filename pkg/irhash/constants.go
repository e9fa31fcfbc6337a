package irhash

import (
	"fmt"
	"math"
	"math/big"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// Constant-kind bytes, fed into the sink after the type hash. Closed
// enumeration; an unknown constant kind is fatal.
const (
	constUndef byte = iota
	constNone
	constZeroInitializer
	constNull
	constInt
	constFloat
	constCharArray
	constArray
	constStruct
	constVector
	constBlockAddress
	constExprGetElementPtr
	constExprTrunc
	constExprZExt
	constExprSExt
	constExprBitCast
	constExprPtrToInt
	constExprIntToPtr
	constExprAddrSpaceCast
	constExprAdd
	constExprSub
	constExprMul
	constExprICmp
)

// hashConstant emits TagConstant, the type hash, then kind-specific data.
// Global values short-circuit: a global variable with a definitive
// initializer is numbered on first visit and recursed into; revisits hash
// only the recorded number, which is what bounds cyclic initializer
// graphs. Functions and aliases reached as constants contribute nothing
// beyond their type.
func (h *hasher) hashConstant(c constant.Constant) {
	h.sink.Emit(digest.TagConstant)
	h.hashType(c.Type())

	switch gv := c.(type) {
	case *ir.Global:
		if gv.Init != nil {
			if _, seen := h.globalNumbers[gv]; seen {
				h.hashGlobalValue(gv)
			} else {
				h.globalNumbers[gv] = uint64(len(h.globalNumbers))
				h.hashConstant(gv.Init)
			}
		}
		return
	case *ir.Func, *ir.Alias:
		return
	}

	switch c := c.(type) {
	case *constant.Undef:
		h.sink.Byte(constUndef)
	case *constant.NoneToken:
		h.sink.Byte(constNone)
	case *constant.ZeroInitializer:
		h.sink.Byte(constZeroInitializer)
	case *constant.Null:
		h.sink.Byte(constNull)
	case *constant.Int:
		h.sink.Byte(constInt)
		h.sink.APInt(c.X)
	case *constant.Float:
		h.sink.Byte(constFloat)
		h.hashFloat(c)
	case *constant.CharArray:
		h.sink.Byte(constCharArray)
		h.sink.String(string(c.X))
	case *constant.Array:
		h.sink.Byte(constArray)
		for _, elem := range c.Elems {
			h.hashConstant(elem)
		}
	case *constant.Struct:
		h.sink.Byte(constStruct)
		for _, field := range c.Fields {
			h.hashConstant(field)
		}
	case *constant.Vector:
		h.sink.Byte(constVector)
		for _, elem := range c.Elems {
			h.hashConstant(elem)
		}
	case *constant.BlockAddress:
		h.sink.Byte(constBlockAddress)
		h.hashValue(c.Func)
		h.hashValue(c.Block)
	case *constant.ExprGetElementPtr:
		h.sink.Byte(constExprGetElementPtr)
		h.hashConstant(c.Src)
		for _, index := range c.Indices {
			h.hashConstant(index)
		}
	case *constant.ExprTrunc:
		h.sink.Byte(constExprTrunc)
		h.hashConstant(c.From)
	case *constant.ExprZExt:
		h.sink.Byte(constExprZExt)
		h.hashConstant(c.From)
	case *constant.ExprSExt:
		h.sink.Byte(constExprSExt)
		h.hashConstant(c.From)
	case *constant.ExprBitCast:
		h.sink.Byte(constExprBitCast)
		h.hashConstant(c.From)
	case *constant.ExprPtrToInt:
		h.sink.Byte(constExprPtrToInt)
		h.hashConstant(c.From)
	case *constant.ExprIntToPtr:
		h.sink.Byte(constExprIntToPtr)
		h.hashConstant(c.From)
	case *constant.ExprAddrSpaceCast:
		h.sink.Byte(constExprAddrSpaceCast)
		h.hashConstant(c.From)
	case *constant.ExprAdd:
		h.sink.Byte(constExprAdd)
		h.hashConstant(c.X)
		h.hashConstant(c.Y)
	case *constant.ExprSub:
		h.sink.Byte(constExprSub)
		h.hashConstant(c.X)
		h.hashConstant(c.Y)
	case *constant.ExprMul:
		h.sink.Byte(constExprMul)
		h.hashConstant(c.X)
		h.hashConstant(c.Y)
	case *constant.ExprICmp:
		h.sink.Byte(constExprICmp)
		h.sink.Byte(byte(c.Pred))
		h.hashConstant(c.X)
		h.hashConstant(c.Y)
	default:
		panic(fmt.Sprintf("irhash: unknown constant kind %T", c))
	}
}

// hashGlobalValue hashes a revisited global by identity: its GUID, then
// either the recorded number or (first visit through this path) the
// initializer.
func (h *hasher) hashGlobalValue(gv *ir.Global) {
	h.sink.Uint64(globalGUID(gv.Name()))
	if gv.Init == nil {
		return
	}
	if n, seen := h.globalNumbers[gv]; seen {
		h.sink.Uint64(n)
	} else {
		h.globalNumbers[gv] = uint64(len(h.globalNumbers))
		h.hashConstant(gv.Init)
	}
}

// floatSemantics is the (precision, max-exponent, min-exponent,
// size-in-bits) tuple that prefixes every float's bit pattern, so that
// two formats with identical patterns still digest differently.
type floatSemantics struct {
	precision  uint64
	maxExp     int64
	minExp     int64
	sizeInBits uint64
}

func semanticsOf(kind types.FloatKind) floatSemantics {
	switch kind {
	case types.FloatKindHalf:
		return floatSemantics{11, 15, -14, 16}
	case types.FloatKindFloat:
		return floatSemantics{24, 127, -126, 32}
	case types.FloatKindDouble:
		return floatSemantics{53, 1023, -1022, 64}
	case types.FloatKindX86_FP80:
		return floatSemantics{64, 16383, -16382, 80}
	case types.FloatKindFP128:
		return floatSemantics{113, 16383, -16382, 128}
	case types.FloatKindPPC_FP128:
		return floatSemantics{106, 1023, -1022, 128}
	default:
		panic(fmt.Sprintf("irhash: unknown float kind %v", kind))
	}
}

func (h *hasher) hashFloat(c *constant.Float) {
	sem := semanticsOf(c.Typ.Kind)
	h.sink.APFloat(int(sem.precision), int(sem.maxExp), int(sem.minExp), int(sem.sizeInBits), floatBitPattern(c))
}

// floatBitPattern canonicalizes the value to a bit pattern. Float and
// double use their native IEEE encodings; the remaining formats
// canonicalize through the float64 pattern, which keeps the digest
// deterministic without reimplementing their encodings.
func floatBitPattern(c *constant.Float) *big.Int {
	if c.NaN {
		return new(big.Int).SetUint64(0x7ff8000000000000)
	}
	switch c.Typ.Kind {
	case types.FloatKindFloat:
		f, _ := c.X.Float32()
		return new(big.Int).SetUint64(uint64(math.Float32bits(f)))
	default:
		f, _ := c.X.Float64()
		return new(big.Int).SetUint64(math.Float64bits(f))
	}
}
