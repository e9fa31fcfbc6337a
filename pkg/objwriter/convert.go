package objwriter

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/rgal/llvm-project-prepo/pkg/fragment"
	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

// Convert materializes the ticket identified by id into a relocatable
// object image: iterate members, fetch each member's fragment, route every
// fragment section into its output section, then emit the ELF. The store
// stays open for the whole run; the caller owns writing the returned
// bytes to disk.
func Convert(repo repository.Repository, id uuid.UUID) ([]byte, error) {
	ticket, err := repo.Ticket(id)
	if err != nil {
		return nil, err
	}

	st := NewState()
	for _, m := range ticket.Members {
		frag, err := repo.Fragment(m.Digest)
		if err != nil {
			return nil, err
		}

		if m.Linkage == repository.Common {
			if err := appendCommon(st, m, frag); err != nil {
				return nil, err
			}
			continue
		}

		if err := appendFragment(st, repo, m, frag); err != nil {
			return nil, err
		}
	}

	return st.Write(), nil
}

// appendCommon handles common-linkage members, which never contribute
// bytes: the symbol carries SHN_COMMON and encodes its size from the BSS
// payload. A common fragment with anything other than exactly one BSS
// section is a structural violation.
func appendCommon(st *State, m repository.Member, frag *fragment.Fragment) error {
	kinds := frag.Kinds()
	if len(kinds) != 1 || kinds[0] != fragment.BSS {
		return errors.Errorf("fragment for common symbol %q did not contain a sole BSS section", m.Name)
	}
	view, _ := frag.Section(fragment.BSS)
	st.Symbols.Define(m.Name, nil, 0, uint64(len(view.Data())), m.Linkage)
	return nil
}

// appendFragment routes each of the fragment's sections into its output
// section. Two passes over the section kinds: the first selects (or
// creates) the output sections and records where every contribution will
// land, so internal fixups can be rewritten through that map and the
// member symbol's st_value is known before any bytes move; the second
// appends the payloads.
func appendFragment(st *State, repo repository.Repository, m repository.Member, frag *fragment.Fragment) error {
	isLinkOnce := m.Linkage.IsLinkOnce()
	discriminator := ""
	if isLinkOnce {
		discriminator = m.Name
	}

	var local [fragment.NumSectionKinds]Contribution
	for _, kind := range frag.Kinds() {
		view, _ := frag.Section(kind)
		info := resolveInfo(kind, m.Name)
		sec, created := st.Section(SectionID{Name: info.Name, Discriminator: discriminator}, info)

		// A fresh linkonce section joins its member's COMDAT group.
		if created && isLinkOnce {
			g := st.Group(m.Name)
			g.Members = append(g.Members, sec)
			sec.AttachToGroup(g)
		}

		local[kind] = Contribution{
			Section: sec,
			Offset:  sec.AlignedContributionSize(view.Alignment),
		}
	}

	for _, kind := range frag.Kinds() {
		view, _ := frag.Section(kind)

		ifixups := view.IFixups()
		for _, fx := range ifixups {
			if int(fx.Section) >= fragment.NumSectionKinds || local[fx.Section].Section == nil {
				return errors.Errorf("member %q: internal fixup targets absent section %d", m.Name, fx.Section)
			}
		}

		raw := view.XFixups()
		xfixups := make([]ResolvedXFixup, len(raw))
		for i, fx := range raw {
			name, err := repo.Name(fx.Name)
			if err != nil {
				return errors.Wrapf(err, "member %q", m.Name)
			}
			xfixups[i] = ResolvedXFixup{Name: name, Type: fx.Type, Offset: fx.Offset, Addend: fx.Addend}
		}

		local[kind].Section.Append(m, view.Data(), view.Alignment, ifixups, xfixups, st.Symbols, &local)
	}
	return nil
}
