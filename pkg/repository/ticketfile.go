package repository

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	ticketFileSize      = 24
	ticketFileSignature = "RepoUuid"
)

// ReadTicketFile decodes the 24-byte ticket sidecar format: bytes 0-7 are
// the ASCII signature "RepoUuid", bytes 8-23 are the 16-byte UUID in
// big-endian byte order (no dashes). Any other length or signature is
// rejected.
func ReadTicketFile(b []byte) (uuid.UUID, error) {
	if len(b) != ticketFileSize {
		return uuid.UUID{}, errors.Errorf("not a Repo ticket file: expected %d bytes, got %d", ticketFileSize, len(b))
	}
	if string(b[:8]) != ticketFileSignature {
		return uuid.UUID{}, errors.New("not a Repo ticket file: bad signature")
	}
	var id uuid.UUID
	copy(id[:], b[8:24])
	return id, nil
}
