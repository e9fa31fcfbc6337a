// Package repository defines the read-only view over the content-addressed
// store that the rest of repo2obj depends on: ticket lookup by UUID,
// fragment lookup by digest, name-index string resolution. The concrete
// store (pkg/boltrepo) is one implementation of this interface; tests may
// supply another.
package repository

import (
	"github.com/google/uuid"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
	"github.com/rgal/llvm-project-prepo/pkg/fragment"
)

// Member is one entry of a Ticket's manifest.
type Member struct {
	Name    string
	Digest  digest.Digest
	Linkage Linkage
}

// Ticket is the manifest of members that make up one compiled translation
// unit, identified by a UUID.
type Ticket struct {
	ID      uuid.UUID
	Members []Member
}

// Repository is a read-only view over the content-addressed store: ticket
// lookup by UUID, fragment lookup by digest, name-index string
// resolution. Implementations are opened once in read-only mode and held
// open for the duration of one repo2obj invocation.
type Repository interface {
	Ticket(id uuid.UUID) (*Ticket, error)
	Fragment(d digest.Digest) (*fragment.Fragment, error)
	Name(address uint64) (string, error)

	// Close releases the store handle. Fragment views returned earlier
	// must not be used afterward.
	Close() error
}
