package objwriter

import "debug/elf"

// grpComdat is the GRP_COMDAT flag word that opens every group section
// body; debug/elf stops short of defining it.
const grpComdat uint32 = 1

// Group is one COMDAT group: the name of its identifying (signature)
// symbol, the output sections that belong to it, and the slot its section
// header occupies once allocated (0 = unassigned, never a valid slot
// since index 0 is the ELF null section).
type Group struct {
	Signature    string
	Members      []*OutputSection
	sectionIndex uint32
}

// SectionIndex returns the group's section header slot, or 0 if
// allocateHeader has not run yet.
func (g *Group) SectionIndex() uint32 { return g.sectionIndex }

// allocateHeader reserves a section header slot for the group. The ELF
// spec requires a group section to precede its members in the section
// header table, yet its header carries the signature symbol's index,
// known only after the symbol sort. Hence the two phases: headers are
// allocated here (after sorting, before member emission), bodies are
// written by writeBody once member indices exist.
func (g *Group) allocateHeader(symbols *SymbolTable, strings *StringTable, headers *[]elf.Section64) {
	if g.sectionIndex != 0 {
		return
	}
	sigIndex, ok := symbols.IndexOf(g.Signature)
	if !ok {
		// The signature symbol is defined by the member append that
		// triggered group creation, so a miss is a programming error.
		panic("objwriter: group signature symbol " + g.Signature + " missing from symbol table")
	}
	g.sectionIndex = uint32(len(*headers))
	*headers = append(*headers, elf.Section64{
		Name:      strings.Insert(".group"),
		Type:      uint32(elf.SHT_GROUP),
		Link:      sectionIndexSymTab,
		Info:      sigIndex,
		Addralign: 4,
		Entsize:   4,
	})
}

// writeBody emits the group's payload (a GRP_COMDAT word followed by the
// header indices of each member section and its .rela.* sibling, if any)
// and patches the previously allocated header with its offset and size.
func (g *Group) writeBody(w *emitBuffer, headers []elf.Section64) {
	w.alignTo(4)
	start := w.tell()
	w.writeStruct(grpComdat)
	for _, m := range g.Members {
		w.writeStruct(m.index)
		if m.numRelocations() > 0 {
			w.writeStruct(m.index + 1)
		}
	}
	headers[g.sectionIndex].Off = start
	headers[g.sectionIndex].Size = w.tell() - start
}
