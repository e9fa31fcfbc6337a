// Package boltrepo is one concrete repository.Repository implementation,
// backed by go.etcd.io/bbolt: three buckets stand in for pstore's
// ticket/digest/name indices.
package boltrepo

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
	"github.com/rgal/llvm-project-prepo/pkg/fragment"
	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

var (
	bucketTickets   = []byte("tickets")
	bucketFragments = []byte("fragments")
	bucketNames     = []byte("names")
)

// Store is a read-only repository.Repository over a bbolt database file.
// It is opened once and held for the duration of one repo2obj
// invocation.
type Store struct {
	db *bolt.DB
}

// Open opens path read-only. A store missing any of the three indices is
// unusable and rejected here.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o444, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, errors.Wrapf(err, "opening repository %q", path)
	}
	s := &Store{db: db}
	if err := s.checkBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) checkBuckets() error {
	return s.db.View(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTickets, bucketFragments, bucketNames} {
			if tx.Bucket(name) == nil {
				return errors.Errorf("repository missing %q index", name)
			}
		}
		return nil
	})
}

func (s *Store) Close() error { return s.db.Close() }

// Ticket looks up a ticket by UUID. A miss names the UUID in the
// diagnostic.
func (s *Store) Ticket(id uuid.UUID) (*repository.Ticket, error) {
	var tk *repository.Ticket
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketTickets).Get(id[:])
		if raw == nil {
			return errors.Errorf("ticket %s was not found", id)
		}
		decoded, err := decodeTicket(id, raw)
		if err != nil {
			return err
		}
		tk = decoded
		return nil
	})
	return tk, err
}

// Fragment looks up a fragment by digest. A miss prints the digest in
// hex.
func (s *Store) Fragment(d digest.Digest) (*fragment.Fragment, error) {
	var frag *fragment.Fragment
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketFragments).Get(d[:])
		if raw == nil {
			return errors.Errorf("digest %s was not found", d)
		}
		decoded, err := fragment.Unmarshal(raw)
		if err != nil {
			return err
		}
		frag = decoded
		return nil
	})
	return frag, err
}

// Name resolves a name-index address to its interned string.
func (s *Store) Name(address uint64) (string, error) {
	var name string
	err := s.db.View(func(tx *bolt.Tx) error {
		var key [8]byte
		binary.LittleEndian.PutUint64(key[:], address)
		raw := tx.Bucket(bucketNames).Get(key[:])
		if raw == nil {
			return errors.Errorf("name address %d was not found", address)
		}
		name = string(raw)
		return nil
	})
	return name, err
}
