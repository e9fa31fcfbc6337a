package boltrepo

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/rgal/llvm-project-prepo/pkg/digest"
	"github.com/rgal/llvm-project-prepo/pkg/fragment"
	"github.com/rgal/llvm-project-prepo/pkg/repository"
)

// populate creates a store file with the three indices and the given
// records, the way a repository-writing compiler would.
func populate(t *testing.T, path string, tk *repository.Ticket, frags map[digest.Digest]*fragment.Fragment, names map[uint64]string) {
	t.Helper()
	db, err := bolt.Open(path, 0o644, nil)
	require.NoError(t, err)
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		tickets, err := tx.CreateBucketIfNotExists(bucketTickets)
		if err != nil {
			return err
		}
		fragments, err := tx.CreateBucketIfNotExists(bucketFragments)
		if err != nil {
			return err
		}
		nameIdx, err := tx.CreateBucketIfNotExists(bucketNames)
		if err != nil {
			return err
		}

		if tk != nil {
			if err := tickets.Put(tk.ID[:], EncodeTicket(tk)); err != nil {
				return err
			}
		}
		for d, f := range frags {
			if err := fragments.Put(d[:], f.Marshal()); err != nil {
				return err
			}
		}
		for addr, name := range names {
			var key [8]byte
			binary.LittleEndian.PutUint64(key[:], addr)
			if err := nameIdx.Put(key[:], []byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clang.db")

	var d digest.Digest
	d[0] = 7
	frag, err := fragment.MakeUnique([]fragment.SectionInput{
		{Kind: fragment.Text, Data: []byte{0xC3}, Alignment: 4},
	})
	require.NoError(t, err)

	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	tk := &repository.Ticket{ID: id, Members: []repository.Member{
		{Name: "main", Digest: d, Linkage: repository.External},
	}}
	populate(t, path, tk, map[digest.Digest]*fragment.Fragment{d: frag}, map[uint64]string{9: "callee"})

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	gotTicket, err := store.Ticket(id)
	require.NoError(t, err)
	require.Equal(t, tk.Members, gotTicket.Members)

	gotFrag, err := store.Fragment(d)
	require.NoError(t, err)
	view, ok := gotFrag.Section(fragment.Text)
	require.True(t, ok)
	require.Equal(t, []byte{0xC3}, view.Data())
	require.Equal(t, uint32(4), view.Alignment)

	name, err := store.Name(9)
	require.NoError(t, err)
	require.Equal(t, "callee", name)
}

// S3: a valid ticket file whose UUID is absent from the ticket index
// fails with the UUID in the diagnostic.
func TestStoreTicketMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clang.db")
	populate(t, path, nil, nil, nil)

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	_, err = store.Ticket(id)
	require.Error(t, err)
	require.Contains(t, err.Error(), id.String())
	require.Contains(t, err.Error(), "was not found")
}

func TestStoreDigestMiss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clang.db")
	populate(t, path, nil, nil, nil)

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	var d digest.Digest
	d[15] = 0xEE
	_, err = store.Fragment(d)
	require.Error(t, err)
	require.Contains(t, err.Error(), d.String())
	require.Contains(t, err.Error(), "was not found")
}

// A database missing one of the three indices is rejected at open time.
func TestOpenRejectsMissingIndices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := bolt.Open(path, 0o644, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "index")
}
