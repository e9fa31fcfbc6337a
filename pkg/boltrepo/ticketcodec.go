package boltrepo

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

// Ticket wire format: [uint32 memberCount]{[uint64 nameLen][name bytes]
// [16 digest bytes][uint8 linkage]}*. EncodeTicket writes it and this
// package's Store reads it back through decodeTicket; both must agree.

// EncodeTicket serializes a ticket for storage. Exported so tests and
// store-population tooling outside this package can construct fixtures
// without duplicating the wire format.
func EncodeTicket(tk *repository.Ticket) []byte {
	size := 4
	for _, m := range tk.Members {
		size += 8 + len(m.Name) + 16 + 1
	}
	out := make([]byte, size)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(tk.Members)))
	off := 4
	for _, m := range tk.Members {
		binary.LittleEndian.PutUint64(out[off:off+8], uint64(len(m.Name)))
		off += 8
		copy(out[off:off+len(m.Name)], m.Name)
		off += len(m.Name)
		copy(out[off:off+16], m.Digest[:])
		off += 16
		out[off] = byte(m.Linkage)
		off++
	}
	return out
}

func decodeTicket(id uuid.UUID, b []byte) (*repository.Ticket, error) {
	if len(b) < 4 {
		return nil, errors.New("ticket record truncated")
	}
	count := binary.LittleEndian.Uint32(b[0:4])
	off := 4
	members := make([]repository.Member, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+8 > len(b) {
			return nil, errors.New("ticket record truncated")
		}
		nameLen := int(binary.LittleEndian.Uint64(b[off : off+8]))
		off += 8
		if off+nameLen+16+1 > len(b) {
			return nil, errors.New("ticket record truncated")
		}
		name := string(b[off : off+nameLen])
		off += nameLen
		var d [16]byte
		copy(d[:], b[off:off+16])
		off += 16
		linkage := repository.Linkage(b[off])
		off++
		members = append(members, repository.Member{
			Name:    name,
			Digest:  d,
			Linkage: linkage,
		})
	}
	return &repository.Ticket{ID: id, Members: members}, nil
}
