// Package mathutil holds the integer and wide-register helpers shared by
// the posit codec and the accumulators.
//
// Registers are num.U128 values interpreted as two's complement where a sign
// matters. All shift helpers accept any shift amount; shifting past the
// register width yields 0 (or -1 for negative values shifted arithmetically).
package mathutil

import (
	"math"
	"math/bits"

	num "github.com/shabbyrobe/go-num"
	"golang.org/x/exp/constraints"
)

const registerBits = 128

var (
	zero128    num.U128
	allOnes128 = num.U128FromRaw(math.MaxUint64, math.MaxUint64)
)

// Abs returns the absolute value of v.
func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Sign returns -1 if v < 0, 0 if v == 0, +1 if v > 0.
func Sign[T constraints.Signed](v T) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LeadingOnes32 returns the number of leading one bits in x.
func LeadingOnes32(x uint32) int {
	return bits.LeadingZeros32(^x)
}

// Bit128 returns a register with only bit n set, or zero if n >= 128.
func Bit128(n uint) num.U128 {
	return num.U128From64(1).Lsh(n)
}

// TestBit128 reports whether bit n of u is set.
func TestBit128(u num.U128, n uint) bool {
	return !u.And(Bit128(n)).IsZero()
}

// HighOnes128 returns a register whose n most significant bits are set.
func HighOnes128(n uint) num.U128 {
	switch {
	case n == 0:
		return zero128
	case n >= registerBits:
		return allOnes128
	}
	return Not128(allOnes128.Rsh(n))
}

// Not128 returns ^u.
func Not128(u num.U128) num.U128 {
	return u.Xor(allOnes128)
}

// Neg128 returns the two's complement of u.
func Neg128(u num.U128) num.U128 {
	return Not128(u).Inc()
}

// IsNeg128 reports whether the sign bit of u is set.
func IsNeg128(u num.U128) bool {
	hi, _ := u.Raw()
	return hi>>63 != 0
}

// Abs128 returns the magnitude of the two's complement value u,
// and whether u was negative.
func Abs128(u num.U128) (num.U128, bool) {
	if IsNeg128(u) {
		return Neg128(u), true
	}
	return u, false
}

// Sar128 shifts u right by n bits, replicating the sign bit.
func Sar128(u num.U128, n uint) num.U128 {
	if !IsNeg128(u) {
		return u.Rsh(n)
	}
	if n >= registerBits {
		return allOnes128
	}
	return u.Rsh(n).Or(HighOnes128(n))
}

// Normalize128 shifts a non-zero u left until its leading one reaches bit 127
// and returns the top 64 bits of the result, with every lower set bit folded
// into bit 0, along with the original position of the leading one.
// The folded bit keeps round-to-nearest-even decisions exact.
func Normalize128(u num.U128) (frac uint64, pos int) {
	lz := u.LeadingZeros()
	hi, lo := u.Lsh(lz).Raw()
	if lo != 0 {
		hi |= 1
	}
	return hi, registerBits - 1 - int(lz)
}

// MulShift128 multiplies two's complement registers a and b into a 256-bit
// product, shifts it right arithmetically by shift bits and returns the
// low 128 bits of the result.
func MulShift128(a, b num.U128, shift uint) num.U128 {
	ma, na := Abs128(a)
	mb, nb := Abs128(b)
	p := mul256(ma, mb)
	if na != nb {
		p = neg256(p)
	}
	p = sar256(p, shift)
	return num.U128FromRaw(p[1], p[0])
}

// word256 is a 256-bit two's complement number, least significant limb first.
type word256 [4]uint64

func mul256(a, b num.U128) word256 {
	ahi, alo := a.Raw()
	bhi, blo := b.Raw()

	llHi, llLo := bits.Mul64(alo, blo)
	lhHi, lhLo := bits.Mul64(alo, bhi)
	hlHi, hlLo := bits.Mul64(ahi, blo)
	hhHi, hhLo := bits.Mul64(ahi, bhi)

	var r word256
	var c, c2 uint64
	r[0] = llLo
	r[1], c = bits.Add64(llHi, lhLo, 0)
	r[2], c2 = bits.Add64(lhHi, hhLo, c)
	r[3] = hhHi + c2
	r[1], c = bits.Add64(r[1], hlLo, 0)
	r[2], c2 = bits.Add64(r[2], hlHi, c)
	r[3] += c2
	return r
}

func neg256(w word256) word256 {
	carry := uint64(1)
	for i := range w {
		w[i], carry = bits.Add64(^w[i], 0, carry)
	}
	return w
}

func sar256(w word256, n uint) word256 {
	var fill uint64
	if w[3]>>63 != 0 {
		fill = math.MaxUint64
	}
	limb := func(i uint) uint64 {
		if i >= uint(len(w)) {
			return fill
		}
		return w[i]
	}
	q, r := n/64, n%64
	var out word256
	for i := uint(0); i < uint(len(out)); i++ {
		lo, hi := limb(i+q), limb(i+q+1)
		if r == 0 {
			out[i] = lo
		} else {
			out[i] = lo>>r | hi<<(64-r)
		}
	}
	return out
}
