package irhash

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
)

// Int-valued attribute kinds, distinguishing which integer attribute is
// being hashed.
const (
	attrAlign byte = iota + 1
	attrAlignStack
	attrDereferenceable
)

// hashAttribute folds one attribute into the sink. Enum attributes hash
// their kind; int attributes hash kind and value; string attributes hash
// key and value. Attribute kinds outside this set carry no code-affecting
// payload and are skipped.
func (h *hasher) hashAttribute(attr interface{}) {
	switch a := attr.(type) {
	case enum.FuncAttr:
		h.sink.Emit(digest.TagAttributeEnum)
		h.sink.Uint64(uint64(a))
	case enum.ParamAttr:
		h.sink.Emit(digest.TagAttributeEnum)
		h.sink.Uint64(uint64(a))
	case enum.ReturnAttr:
		h.sink.Emit(digest.TagAttributeEnum)
		h.sink.Uint64(uint64(a))
	case ir.Align:
		h.sink.Emit(digest.TagAttributeInt)
		h.sink.Byte(attrAlign)
		h.sink.Uint64(uint64(a))
	case ir.AlignStack:
		h.sink.Emit(digest.TagAttributeInt)
		h.sink.Byte(attrAlignStack)
		h.sink.Uint64(uint64(a))
	case ir.Dereferenceable:
		h.sink.Emit(digest.TagAttributeInt)
		h.sink.Byte(attrDereferenceable)
		h.sink.Uint64(a.N)
		h.sink.Bool(a.DerefOrNull)
	case ir.AttrString:
		h.sink.Emit(digest.TagAttributeString)
		h.sink.String(string(a))
	case ir.AttrPair:
		h.sink.Emit(digest.TagAttributeString)
		h.sink.String(a.Key)
		h.sink.String(a.Value)
	}
}

// hashFuncAttributes hashes a function's full attribute list: function
// attributes, then return attributes, then each parameter's attributes in
// declaration order.
func (h *hasher) hashFuncAttributes(f *ir.Func) {
	h.sink.Emit(digest.TagAttributeList)
	for _, a := range f.FuncAttrs {
		h.hashAttribute(a)
	}
	for _, a := range f.ReturnAttrs {
		h.hashAttribute(a)
	}
	for _, p := range f.Params {
		for _, a := range p.Attrs {
			h.hashAttribute(a)
		}
	}
}

// hashCallAttributes hashes the attribute list attached to a call or
// invoke site.
func (h *hasher) hashCallAttributes(funcAttrs []ir.FuncAttribute, returnAttrs []ir.ReturnAttribute) {
	h.sink.Emit(digest.TagAttributeList)
	for _, a := range funcAttrs {
		h.hashAttribute(a)
	}
	for _, a := range returnAttrs {
		h.hashAttribute(a)
	}
}
