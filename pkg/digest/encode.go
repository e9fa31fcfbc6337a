package digest

import (
	"encoding/binary"
	"math/big"
)

// Uint64 hashes a fixed-width little-endian integer at the widest native
// width.
func (s *Sink) Uint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	s.Update(b[:])
}

func (s *Sink) Uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	s.Update(b[:])
}

func (s *Sink) Byte(v byte) {
	s.Update([]byte{v})
}

func (s *Sink) Bool(v bool) {
	if v {
		s.Byte(1)
	} else {
		s.Byte(0)
	}
}

// String hashes a StringRef under its own tag, length-prefixed so no
// concatenation ambiguity is possible.
func (s *Sink) String(str string) {
	s.Emit(TagStringRef)
	s.Uint64(uint64(len(str)))
	s.Update([]byte(str))
}

// APInt hashes an arbitrary-precision integer as a sign, a length
// (number of 64-bit limbs), then the raw little-endian limb sequence.
// The sign byte keeps +n and -n apart; the limbs carry the magnitude.
func (s *Sink) APInt(v *big.Int) {
	s.Emit(TagAPInt)
	s.Bool(v.Sign() < 0)
	bitLen := v.BitLen()
	numLimbs := (bitLen + 63) / 64
	if numLimbs == 0 {
		numLimbs = 1
	}
	s.Uint64(uint64(numLimbs))
	words := v.Bits()
	for i := 0; i < numLimbs; i++ {
		var limb uint64
		if i < len(words) {
			limb = uint64(words[i])
		}
		s.Uint64(limb)
	}
}

// APFloat hashes a floating-point value canonicalized to
// (precision, max-exponent, min-exponent, size-in-bits, bit-pattern)
// so that two floats of different formats but identical bit patterns
// receive different digests.
func (s *Sink) APFloat(precision, maxExponent, minExponent, sizeInBits int, bitPattern *big.Int) {
	s.Emit(TagAPFloat)
	s.Uint64(uint64(precision))
	s.Uint64(uint64(int64(maxExponent)))
	s.Uint64(uint64(int64(minExponent)))
	s.Uint64(uint64(sizeInBits))
	s.APInt(bitPattern)
}

// Float64Bits is a convenience constructor for the common IEEE-754
// double-precision case (used when llir/llvm reports a float.Float value
// backed by a plain float64).
func Float64Bits(bitsPattern uint64) *big.Int {
	return new(big.Int).SetUint64(bitsPattern)
}
