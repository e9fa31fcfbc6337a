package digest

// Tag is a one-byte domain-separation marker written before any value of
// its kind: a 4-byte integer must never alias the first 4 bytes of a
// length-4 string, and so on.
type Tag byte

const (
	TagStringRef Tag = iota + 1
	TagAPInt
	TagAPFloat
	TagAtomicOrdering
	TagAttributeEnum
	TagAttributeInt
	TagAttributeString
	TagAttributeList
	TagInlineAsm
	TagInlineAsmHasSideEffects
	TagInlineAsmIsAlignStack
	TagInlineAsmDialect
	TagRangeMetadata
	TagType
	TagConstant
	TagValue
	TagInstruction
	TagGetElementPtrInst
	TagAllocaInst
	TagLoadInst
	TagStoreInst
	TagCmpInst
	TagCallInst
	TagInvokeInst
	TagInsertValueInst
	TagExtractValueInst
	TagFenceInst
	TagAtomicCmpXchgInst
	TagAtomicRMWInst
	TagPHINode
	TagBasicBlock
	TagSignature
	TagSignatureGC
	TagSignatureSection
	TagSignatureVarArg
	TagSignatureCallingConv
	TagSignatureArg
	TagOperandBundles
	TagDatalayout
	TagTriple
	TagGlobalFunction
	TagGlobalVarible
	TagGlobalAlias
	TagGVComdat
	TagGVConstant
	TagGVThreadLocalMode
	TagGVAlignment
	TagGVUnnamedAddr
	TagGVInitValue
	TagGVVisibility
	TagGVDLLStorageClass
)

// Emit writes the tag byte itself into the sink.
func (s *Sink) Emit(t Tag) {
	s.Update([]byte{byte(t)})
}
