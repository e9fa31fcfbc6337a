// Package objwriter materializes a ticket's fragments into a relocatable
// ELF64LE object: output section accumulation, symbol/string tables,
// COMDAT group emission, and the two-pass header-patching writer.
package objwriter

import "debug/elf"

// Fixed section header slots: 0 is the ELF null section, 1 the string
// table, 2 the symbol table. All further indices are assigned in order of
// section creation.
const (
	sectionIndexNull   = 0
	sectionIndexStrTab = 1
	sectionIndexSymTab = 2
)

const (
	ehdrSize      = 64
	symEntrySize  = 24
	relaEntrySize = 24
)

// State is the per-invocation ELF-state: string table, symbol table,
// output-section map, and group map, owned exclusively by one conversion
// run. It holds the only mutable state of the whole linker flow.
type State struct {
	sections     map[SectionID]*OutputSection
	sectionOrder []*OutputSection
	groups       map[string]*Group
	groupOrder   []*Group

	Strings *StringTable
	Symbols *SymbolTable
}

func NewState() *State {
	strings := NewStringTable()
	return &State{
		sections: make(map[SectionID]*OutputSection),
		groups:   make(map[string]*Group),
		Strings:  strings,
		Symbols:  NewSymbolTable(strings),
	}
}

// Section returns the output section for id, creating it on first use.
// The second result reports whether this call created it, so the caller
// attaches a fresh linkonce section to its group exactly once.
func (st *State) Section(id SectionID, info sectionInfo) (*OutputSection, bool) {
	if s, ok := st.sections[id]; ok {
		return s, false
	}
	s := newOutputSection(id, info)
	st.sections[id] = s
	st.sectionOrder = append(st.sectionOrder, s)
	return s, true
}

// Group returns the COMDAT group keyed by its signature name, creating it
// on first use.
func (st *State) Group(signature string) *Group {
	if g, ok := st.groups[signature]; ok {
		return g
	}
	g := &Group{Signature: signature}
	st.groups[signature] = g
	st.groupOrder = append(st.groupOrder, g)
	return g
}

func (st *State) initELFHeader() elf.Header64 {
	var h elf.Header64
	copy(h.Ident[:], elf.ELFMAG)
	h.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	h.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	h.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	h.Ident[elf.EI_OSABI] = byte(elf.ELFOSABI_NONE)
	h.Type = uint16(elf.ET_REL)
	h.Machine = uint16(elf.EM_X86_64)
	h.Version = uint32(elf.EV_CURRENT)
	h.Ehsize = ehdrSize
	h.Phentsize = 56
	h.Shentsize = 64
	h.Shstrndx = sectionIndexStrTab
	return h
}

// initStandardSections appends the null, .strtab, and .symtab headers in
// their fixed slots. Offsets and sizes are patched once the contents are
// written.
func (st *State) initStandardSections(headers *[]elf.Section64) {
	*headers = append(*headers, elf.Section64{}) // null

	*headers = append(*headers, elf.Section64{
		Name: st.Strings.Insert(".strtab"),
		Type: uint32(elf.SHT_STRTAB),
	})

	*headers = append(*headers, elf.Section64{
		Name:      st.Strings.Insert(".symtab"),
		Type:      uint32(elf.SHT_SYMTAB),
		Link:      sectionIndexStrTab,
		Entsize:   symEntrySize,
		Addralign: 8,
	})
}

// Write emits the object image. Pass order: placeholder ELF header; each
// output section in creation order (allocating its group's header slot
// first, so group headers precede their members); group section bodies
// plus header patches; the string table; the symbol table with sh_info
// set to the first non-local entry; the section header table; finally the
// ELF header is rewritten in place with the populated e_shoff/e_shnum.
func (st *State) Write() []byte {
	st.Symbols.Sort()

	w := &emitBuffer{}
	header := st.initELFHeader()
	w.writeStruct(header)

	headers := make([]elf.Section64, 0, 3+2*len(st.sectionOrder)+len(st.groupOrder))
	st.initStandardSections(&headers)

	for _, sec := range st.sectionOrder {
		if g := sec.Group(); g != nil {
			g.allocateHeader(st.Symbols, st.Strings, &headers)
		}
		sec.setIndex(uint32(len(headers)))
		sec.write(w, st.Strings, &headers)
	}

	for _, g := range st.groupOrder {
		g.writeBody(w, headers)
	}

	strOff := w.tell()
	w.write(st.Strings.Bytes())
	headers[sectionIndexStrTab].Off = strOff
	headers[sectionIndexStrTab].Size = st.Strings.Size()

	symOff, symSize := st.Symbols.write(w)
	headers[sectionIndexSymTab].Off = symOff
	headers[sectionIndexSymTab].Size = symSize
	headers[sectionIndexSymTab].Info = st.Symbols.FirstNonLocal()

	w.alignTo(8)
	shoff := w.tell()
	for _, sh := range headers {
		w.writeStruct(sh)
	}

	header.Shoff = shoff
	header.Shnum = uint16(len(headers))
	header.Shstrndx = sectionIndexStrTab
	w.patchStruct(0, header)

	return w.bytes()
}
