package fragment

// SectionKind is the closed 18-valued enumeration a Fragment's sections are
// drawn from.
type SectionKind uint8

const (
	BSS SectionKind = iota
	Common
	Data
	RelRo
	Text
	Mergeable1ByteCString
	Mergeable2ByteCString
	Mergeable4ByteCString
	MergeableConst4
	MergeableConst8
	MergeableConst16
	MergeableConst32
	MergeableConst
	ReadOnly
	ThreadBSS
	ThreadData
	ThreadLocal
	Metadata

	numSectionKinds = iota
)

// NumSectionKinds is the size of the closed section-kind enumeration,
// exported for callers that index per-kind arrays.
const NumSectionKinds = numSectionKinds

func (k SectionKind) String() string {
	if int(k) < len(sectionKindNames) {
		return sectionKindNames[k]
	}
	return "unknown"
}

var sectionKindNames = [numSectionKinds]string{
	BSS:                   "BSS",
	Common:                "Common",
	Data:                  "Data",
	RelRo:                 "RelRo",
	Text:                  "Text",
	Mergeable1ByteCString: "Mergeable1ByteCString",
	Mergeable2ByteCString: "Mergeable2ByteCString",
	Mergeable4ByteCString: "Mergeable4ByteCString",
	MergeableConst4:       "MergeableConst4",
	MergeableConst8:       "MergeableConst8",
	MergeableConst16:      "MergeableConst16",
	MergeableConst32:      "MergeableConst32",
	MergeableConst:        "MergeableConst",
	ReadOnly:              "ReadOnly",
	ThreadBSS:             "ThreadBSS",
	ThreadData:            "ThreadData",
	ThreadLocal:           "ThreadLocal",
	Metadata:              "Metadata",
}
