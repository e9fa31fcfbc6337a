package objwriter

import (
	"debug/elf"

	"github.com/rgal/llvm-project-prepo/pkg/fragment"
	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

// SectionID keys the output-section map: the output section kind plus a
// discriminator. The kind is carried by its section name, which maps 1:1
// to the (type, flags) pair in the attribute table; keying on the raw
// ELF type alone would merge .bss with .tbss and .data with .data.rel.ro.
// Linkonce members use their ticket-member name as the discriminator so
// that each occupies its own ELF section (a COMDAT group requirement);
// all other linkages use the empty discriminator and merge by kind.
type SectionID struct {
	Name          string
	Discriminator string
}

// ResolvedXFixup is an ExternalFixup whose interned-string name address
// has been resolved against the store's name index.
type ResolvedXFixup struct {
	Name   string
	Type   byte
	Offset uint64
	Addend uint64
}

// Contribution records where one fragment section will land: the output
// section chosen for it and the byte offset its payload will start at.
// The per-fragment contribution array is the local-section-map that
// internal fixups are rewritten through.
type Contribution struct {
	Section *OutputSection
	Offset  uint64
}

// reloc is one pending .rela entry. Symbol indices are not known until the
// symbol table is sorted, so the target symbol is held by reference.
type reloc struct {
	offset uint64
	sym    *Symbol
	typ    byte
	addend int64
}

// OutputSection accumulates fragment payloads destined for one ELF output
// section, together with the relocations that survive into the object
// file.
type OutputSection struct {
	id    SectionID
	info  sectionInfo
	name  string
	data  []byte
	align uint64

	relocs []reloc
	group  *Group

	index uint32 // section header index, assigned during emission
}

func newOutputSection(id SectionID, info sectionInfo) *OutputSection {
	name := id.Name
	if id.Discriminator != "" {
		name += "." + id.Discriminator
	}
	return &OutputSection{id: id, info: info, name: name, align: 1}
}

// Name returns the section's header name (kind name plus any
// discriminator suffix).
func (s *OutputSection) Name() string { return s.name }

// Index returns the section header index assigned during emission.
func (s *OutputSection) Index() uint32 { return s.index }

func (s *OutputSection) setIndex(idx uint32) { s.index = idx }

func (s *OutputSection) numRelocations() int { return len(s.relocs) }

// Group returns the COMDAT group this section belongs to, or nil.
func (s *OutputSection) Group() *Group { return s.group }

// AttachToGroup records group membership. Only linkonce sections are ever
// attached.
func (s *OutputSection) AttachToGroup(g *Group) {
	s.group = g
}

// AlignedContributionSize returns the byte offset at which the next
// contribution, padded to align, would land. Callers record this before
// Append so a symbol's st_value is known ahead of the copy.
func (s *OutputSection) AlignedContributionSize(align uint32) uint64 {
	if align <= 1 {
		return uint64(len(s.data))
	}
	a := uint64(align)
	return (uint64(len(s.data)) + a - 1) &^ (a - 1)
}

// Append adds one fragment section's bytes, padded to its alignment, and
// records the member's symbol plus relocations for every fixup. Internal
// fixups are rebased by the contribution start and rewritten through the
// local contribution map into relocations against the target section's
// anchor symbol; external fixups become relocations against (possibly
// undefined) named symbols.
func (s *OutputSection) Append(member repository.Member, data []byte, alignment uint32,
	ifixups []fragment.InternalFixup, xfixups []ResolvedXFixup,
	symbols *SymbolTable, local *[fragment.NumSectionKinds]Contribution) {

	start := s.AlignedContributionSize(alignment)
	if pad := start - uint64(len(s.data)); pad > 0 {
		s.data = append(s.data, make([]byte, pad)...)
	}
	s.data = append(s.data, data...)
	if a := uint64(alignment); a > s.align {
		s.align = a
	}

	symbols.Define(member.Name, s, start, uint64(len(data)), member.Linkage)

	for _, fx := range ifixups {
		target := local[fx.Section]
		s.relocs = append(s.relocs, reloc{
			offset: start + uint64(fx.Offset),
			sym:    symbols.Anchor(target.Section),
			typ:    fx.Type,
			addend: int64(fx.Addend) + int64(target.Offset),
		})
	}
	for _, fx := range xfixups {
		s.relocs = append(s.relocs, reloc{
			offset: start + fx.Offset,
			sym:    symbols.GetOrCreate(fx.Name),
			typ:    fx.Type,
			addend: int64(fx.Addend),
		})
	}
}

// write emits the section payload and, if any external or internal fixups
// remain, its .rela.* sibling, appending one section header for each. The
// payload of a NOBITS section occupies no file bytes; its header still
// records the accumulated size.
func (s *OutputSection) write(w *emitBuffer, strings *StringTable, headers *[]elf.Section64) {
	flags := s.info.Flags
	if s.group != nil {
		flags |= elf.SHF_GROUP
	}

	w.alignTo(s.align)
	off := w.tell()
	if s.info.Type != elf.SHT_NOBITS {
		w.write(s.data)
	}
	*headers = append(*headers, elf.Section64{
		Name:      strings.Insert(s.name),
		Type:      uint32(s.info.Type),
		Flags:     uint64(flags),
		Off:       off,
		Size:      uint64(len(s.data)),
		Addralign: s.align,
		Entsize:   s.info.EntSize,
	})

	if len(s.relocs) == 0 {
		return
	}
	w.alignTo(8)
	relaOff := w.tell()
	for _, r := range s.relocs {
		w.writeStruct(elf.Rela64{
			Off:    r.offset,
			Info:   uint64(r.sym.index)<<32 | uint64(r.typ),
			Addend: r.addend,
		})
	}
	*headers = append(*headers, elf.Section64{
		Name:      strings.Insert(".rela" + s.name),
		Type:      uint32(elf.SHT_RELA),
		Flags:     uint64(elf.SHF_INFO_LINK),
		Off:       relaOff,
		Size:      w.tell() - relaOff,
		Link:      sectionIndexSymTab,
		Info:      s.index,
		Addralign: 8,
		Entsize:   relaEntrySize,
	})
}
