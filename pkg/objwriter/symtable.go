package objwriter

import (
	"debug/elf"

	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

// Symbol is one symbol table entry: name, section reference,
// offset, size, linkage. Section is nil for undefined references and for
// common symbols (which carry SHN_COMMON instead of a section index).
// Index is assigned by SymbolTable.Sort; entry 0 of the emitted table is
// the ELF null symbol, so real indices start at 1.
type Symbol struct {
	Name    string
	Section *OutputSection
	Offset  uint64
	Size    uint64
	Linkage repository.Linkage

	// sectionAnchor marks the STT_SECTION symbol that internal fixups
	// relocate against. Anchors always bind STB_LOCAL.
	sectionAnchor bool
	defined       bool
	index         uint32
	nameOffset    uint32
}

func (s *Symbol) binding() elf.SymBind {
	if s.sectionAnchor || s.Linkage.IsLocal() {
		return elf.STB_LOCAL
	}
	switch s.Linkage {
	case repository.WeakAny, repository.WeakODR:
		return elf.STB_WEAK
	default:
		return elf.STB_GLOBAL
	}
}

func (s *Symbol) symType() elf.SymType {
	if s.sectionAnchor {
		return elf.STT_SECTION
	}
	return elf.STT_NOTYPE
}

func (s *Symbol) shndx() uint16 {
	switch {
	case s.Section != nil:
		return uint16(s.Section.index)
	case s.defined && s.Linkage == repository.Common:
		return uint16(elf.SHN_COMMON)
	default:
		return uint16(elf.SHN_UNDEF)
	}
}

// SymbolTable collects entries indexed by name, plus the per-section
// anchors, and produces the local-before-global ordering the ELF spec
// requires. Names are interned into the shared string table at insertion
// time: the .strtab payload is emitted before .symtab, so a name first
// seen during the symtab write would be too late.
type SymbolTable struct {
	strings *StringTable
	byName  map[string]*Symbol
	order   []*Symbol // insertion order, anchors included
	anchors map[*OutputSection]*Symbol
	sorted  []*Symbol
}

func NewSymbolTable(strings *StringTable) *SymbolTable {
	return &SymbolTable{
		strings: strings,
		byName:  make(map[string]*Symbol),
		anchors: make(map[*OutputSection]*Symbol),
	}
}

// GetOrCreate returns the existing symbol for name, or registers a new
// undefined one. External-fixup targets enter the table through here.
func (t *SymbolTable) GetOrCreate(name string) *Symbol {
	if s, ok := t.byName[name]; ok {
		return s
	}
	s := &Symbol{
		Name:       name,
		Linkage:    repository.External,
		nameOffset: t.strings.Insert(name),
	}
	t.byName[name] = s
	t.order = append(t.order, s)
	return s
}

// Define records a definition for name at (section, offset, size). The
// first definition wins: a second linkonce member of the same name keeps
// the earlier entry, which is what lets same-name members share one
// symbol while each contributes bytes.
func (t *SymbolTable) Define(name string, section *OutputSection, offset, size uint64, linkage repository.Linkage) *Symbol {
	s := t.GetOrCreate(name)
	if s.defined {
		return s
	}
	s.Section = section
	s.Offset = offset
	s.Size = size
	s.Linkage = linkage
	s.defined = true
	return s
}

// Anchor returns the STT_SECTION symbol for section, creating it on first
// use. Internal fixups are rewritten into relocations against anchors.
func (t *SymbolTable) Anchor(section *OutputSection) *Symbol {
	if s, ok := t.anchors[section]; ok {
		return s
	}
	s := &Symbol{
		Name:          section.name,
		Section:       section,
		sectionAnchor: true,
		defined:       true,
		Linkage:       repository.Internal,
		nameOffset:    t.strings.Insert(section.name),
	}
	t.anchors[section] = s
	t.order = append(t.order, s)
	return s
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Sort orders entries local-first, stable in insertion order within each
// class, and assigns indices starting at 1 (index 0 is the null symbol).
func (t *SymbolTable) Sort() {
	var locals, rest []*Symbol
	for _, s := range t.order {
		if s.binding() == elf.STB_LOCAL {
			locals = append(locals, s)
		} else {
			rest = append(rest, s)
		}
	}
	t.sorted = append(locals, rest...)
	for i, s := range t.sorted {
		s.index = uint32(i + 1)
	}
}

// Sorted returns the entries in emission order, null symbol excluded.
// Sort must have been called first.
func (t *SymbolTable) Sorted() []*Symbol { return t.sorted }

// FirstNonLocal returns the emitted-table index of the first entry whose
// binding is not STB_LOCAL, the symtab header's sh_info value. The null
// symbol at index 0 counts as local.
func (t *SymbolTable) FirstNonLocal() uint32 {
	for _, s := range t.sorted {
		if s.binding() != elf.STB_LOCAL {
			return s.index
		}
	}
	return uint32(len(t.sorted) + 1)
}

// IndexOf returns the emitted-table index of a symbol looked up by name.
// Sort must have been called first.
func (t *SymbolTable) IndexOf(name string) (uint32, bool) {
	s, ok := t.byName[name]
	if !ok {
		return 0, false
	}
	return s.index, true
}

// write emits the null symbol followed by the sorted entries and returns
// (offset, size) for the .symtab section header.
func (t *SymbolTable) write(w *emitBuffer) (uint64, uint64) {
	w.alignTo(8)
	start := w.tell()
	w.writeStruct(elf.Sym64{})
	for _, s := range t.sorted {
		w.writeStruct(elf.Sym64{
			Name:  s.nameOffset,
			Info:  uint8(s.binding())<<4 | uint8(s.symType()),
			Shndx: s.shndx(),
			Value: s.Offset,
			Size:  s.Size,
		})
	}
	return start, w.tell() - start
}
