package irhash

import (
	"fmt"

	"github.com/llir/llvm/ir/types"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// Type-ID bytes. The enumeration is closed: an unlisted type kind is a
// producer bug, not an extension point.
const (
	typeVoid byte = iota
	typeHalf
	typeFloat
	typeDouble
	typeX86FP80
	typeFP128
	typePPCFP128
	typeLabel
	typeMetadata
	typeMMX
	typeToken
	typeInteger
	typeFunction
	typeStruct
	typeArray
	typePointer
	typeVector
)

// hashType emits TagType, a one-byte type ID, then kind-specific data,
// recursing structurally.
func (h *hasher) hashType(t types.Type) {
	h.sink.Emit(digest.TagType)

	switch t := t.(type) {
	case *types.VoidType:
		h.sink.Byte(typeVoid)
	case *types.FloatType:
		h.sink.Byte(floatTypeID(t.Kind))
	case *types.LabelType:
		h.sink.Byte(typeLabel)
	case *types.MetadataType:
		h.sink.Byte(typeMetadata)
	case *types.MMXType:
		h.sink.Byte(typeMMX)
	case *types.TokenType:
		h.sink.Byte(typeToken)
	case *types.IntType:
		h.sink.Byte(typeInteger)
		h.sink.Uint64(t.BitSize)
	case *types.FuncType:
		h.sink.Byte(typeFunction)
		for _, param := range t.Params {
			h.hashType(param)
		}
		h.sink.Bool(t.Variadic)
		h.hashType(t.RetType)
	case *types.PointerType:
		h.sink.Byte(typePointer)
		h.sink.Uint64(uint64(t.AddrSpace))
	case *types.StructType:
		h.sink.Byte(typeStruct)
		for _, field := range t.Fields {
			h.hashType(field)
		}
		if t.Packed {
			h.sink.Bool(t.Packed)
		}
	case *types.ArrayType:
		h.sink.Byte(typeArray)
		h.sink.Uint64(t.Len)
		h.hashType(t.ElemType)
	case *types.VectorType:
		h.sink.Byte(typeVector)
		h.sink.Uint64(t.Len)
		h.hashType(t.ElemType)
	default:
		panic(fmt.Sprintf("irhash: unknown IR type %T", t))
	}
}

func floatTypeID(kind types.FloatKind) byte {
	switch kind {
	case types.FloatKindHalf:
		return typeHalf
	case types.FloatKindFloat:
		return typeFloat
	case types.FloatKindDouble:
		return typeDouble
	case types.FloatKindX86_FP80:
		return typeX86FP80
	case types.FloatKindFP128:
		return typeFP128
	case types.FloatKindPPC_FP128:
		return typePPCFP128
	default:
		panic(fmt.Sprintf("irhash: unknown float kind %v", kind))
	}
}
