package objwriter

import (
	"debug/elf"

	"github.com/rgal/llvm-project-prepo/pkg/fragment"
)

// sectionInfo describes how a fragment.SectionKind maps onto an ELF
// output section: name, type, flags, and entry size (for mergeable/fixed-
// entry-size sections).
type sectionInfo struct {
	Name    string
	Type    elf.SectionType
	Flags   elf.SectionFlag
	EntSize uint64
}

var kindInfo = map[fragment.SectionKind]sectionInfo{
	fragment.BSS:                   {".bss", elf.SHT_NOBITS, elf.SHF_ALLOC | elf.SHF_WRITE, 0},
	fragment.Common:                {".bss", elf.SHT_NOBITS, elf.SHF_ALLOC | elf.SHF_WRITE, 0},
	fragment.Data:                  {".data", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_WRITE, 0},
	fragment.RelRo:                 {".data.rel.ro", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_WRITE, 0},
	fragment.Text:                  {".text", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_EXECINSTR, 0},
	fragment.Mergeable1ByteCString: {".rodata.str1", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE | elf.SHF_STRINGS, 1},
	fragment.Mergeable2ByteCString: {".rodata.str2", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE | elf.SHF_STRINGS, 2},
	fragment.Mergeable4ByteCString: {".rodata.str4", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE | elf.SHF_STRINGS, 4},
	fragment.MergeableConst4:       {".rodata.cst4", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE, 4},
	fragment.MergeableConst8:       {".rodata.cst8", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE, 8},
	fragment.MergeableConst16:      {".rodata.cst16", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE, 16},
	fragment.MergeableConst32:      {".rodata.cst32", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE, 32},
	fragment.MergeableConst:        {".rodata.cst", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_MERGE, 0},
	fragment.ReadOnly:              {".rodata", elf.SHT_PROGBITS, elf.SHF_ALLOC, 0},
	fragment.ThreadBSS:             {".tbss", elf.SHT_NOBITS, elf.SHF_ALLOC | elf.SHF_WRITE | elf.SHF_TLS, 0},
	fragment.ThreadData:            {".tdata", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_WRITE | elf.SHF_TLS, 0},
	fragment.ThreadLocal:           {".tls", elf.SHT_PROGBITS, elf.SHF_ALLOC | elf.SHF_WRITE | elf.SHF_TLS, 0},
	fragment.Metadata:              {".comment", elf.SHT_PROGBITS, 0, 0},
}

// ctorsName and dtorsName are the two ticket-member names whose output
// section is remapped to SHT_INIT_ARRAY/SHT_FINI_ARRAY as a special
// case.
const (
	ctorsName = "llvm.global_ctors"
	dtorsName = "llvm.global_dtors"
)

var (
	ctorsInfo = sectionInfo{".init_array", elf.SHT_INIT_ARRAY, elf.SHF_ALLOC | elf.SHF_WRITE, 0}
	dtorsInfo = sectionInfo{".fini_array", elf.SHT_FINI_ARRAY, elf.SHF_ALLOC | elf.SHF_WRITE, 0}
)

// resolveInfo applies the ctors/dtors name remap on top of the kind table.
func resolveInfo(kind fragment.SectionKind, memberName string) sectionInfo {
	switch memberName {
	case ctorsName:
		return ctorsInfo
	case dtorsName:
		return dtorsInfo
	}
	return kindInfo[kind]
}
