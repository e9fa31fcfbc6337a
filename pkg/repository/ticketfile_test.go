package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestReadTicketFile(t *testing.T) {
	id := uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff")
	raw := append([]byte("RepoUuid"), id[:]...)

	got, err := ReadTicketFile(raw)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestReadTicketFileWrongSize(t *testing.T) {
	raw := make([]byte, 23)
	copy(raw, "RepoUuid")
	_, err := ReadTicketFile(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a Repo ticket file")
}

func TestReadTicketFileWrongSignature(t *testing.T) {
	raw := append([]byte("RepoUuix"), make([]byte, 16)...)
	_, err := ReadTicketFile(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a Repo ticket file")
}

func TestLinkagePredicates(t *testing.T) {
	require.True(t, LinkOnce.IsLinkOnce())
	require.True(t, LinkOnceODR.IsLinkOnce())
	require.False(t, External.IsLinkOnce())
	require.True(t, Internal.IsLocal())
	require.True(t, Private.IsLocal())
	require.False(t, WeakAny.IsLocal())
}
