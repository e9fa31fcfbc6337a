package digest

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinkDeterminism(t *testing.T) {
	mk := func() Digest {
		s := NewSink()
		s.Emit(TagType)
		s.Byte(3)
		s.Uint64(42)
		s.String("hello")
		return s.Final()
	}
	require.Equal(t, mk(), mk())
}

func TestTagDomainSeparation(t *testing.T) {
	// A 4-byte integer must not alias a length-4 string with the same
	// underlying bytes.
	intSink := NewSink()
	intSink.Emit(TagAPInt)
	intSink.Uint32(0x61626364)

	strSink := NewSink()
	strSink.Emit(TagStringRef)
	strSink.Update([]byte{0x64, 0x63, 0x62, 0x61})

	require.NotEqual(t, intSink.Final(), strSink.Final())
}

func TestAPIntRoundTripStable(t *testing.T) {
	s1 := NewSink()
	s1.APInt(big.NewInt(12345))
	s2 := NewSink()
	s2.APInt(big.NewInt(12345))
	require.Equal(t, s1.Final(), s2.Final())

	s3 := NewSink()
	s3.APInt(big.NewInt(12346))
	require.NotEqual(t, s1.Final(), s3.Final())
}

func TestLow64(t *testing.T) {
	d := Digest{0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8}
	require.Equal(t, uint64(0x0102030405060708), d.Low64())
}
