package fragment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeUniqueRejectsDuplicateKind(t *testing.T) {
	_, err := MakeUnique([]SectionInput{
		{Kind: Text, Data: []byte{1}},
		{Kind: Text, Data: []byte{2}},
	})
	require.Error(t, err)
}

func TestMakeUniqueRoundTrip(t *testing.T) {
	text := []byte{0x55, 0x48, 0x89, 0xE5, 0xC3}
	frag, err := MakeUnique([]SectionInput{
		{
			Kind:      Text,
			Data:      text,
			Alignment: 16,
			IFixups:   []InternalFixup{{Section: 1, Type: 2, Offset: 1, Addend: 0}},
			XFixups:   []ExternalFixup{{Name: 7, Type: 4, Offset: 2, Addend: 0}},
		},
		{Kind: Data, Data: []byte{0xAA, 0xBB}},
	})
	require.NoError(t, err)

	v, ok := frag.Section(Text)
	require.True(t, ok)
	require.Equal(t, text, v.Data())
	require.Equal(t, uint32(16), v.Alignment)
	require.Len(t, v.IFixups(), 1)
	require.Equal(t, InternalFixup{Section: 1, Type: 2, Offset: 1, Addend: 0}, v.IFixups()[0])
	require.Len(t, v.XFixups(), 1)
	require.Equal(t, ExternalFixup{Name: 7, Type: 4, Offset: 2, Addend: 0}, v.XFixups()[0])

	d, ok := frag.Section(Data)
	require.True(t, ok)
	require.Equal(t, []byte{0xAA, 0xBB}, d.Data())

	_, ok = frag.Section(BSS)
	require.False(t, ok)

	require.Equal(t, []SectionKind{Text, Data}, frag.Kinds())
}

func TestCheckInternalOffsetRange(t *testing.T) {
	require.NoError(t, CheckInternalOffset(0xFFFFFFFF))
	require.Error(t, CheckInternalOffset(0x100000000))
}
