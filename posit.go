// Copyright 2020 Aleksandr Demakin. All rights reserved.

// package posit implements posit arithmetic: a tapered-precision binary
// number format with a total width of N bits and an exponent field of ES bits,
// together with two accumulators, Quire and FLQuire, that sum products
// without intermediate rounding.
// The format of every value is fixed at compile time by a Params type.
package posit

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"

	"github.com/avdva/posit/internal/mathutil"
)

var (
	_ json.Marshaler   = Posit[P8E1]{}
	_ json.Unmarshaler = (*Posit[P8E1])(nil)
	_ fmt.Formatter    = Posit[P8E1]{}
)

// Posit is an N-bit posit number.
// Only the low N bits of the underlying word are used:
//   N-1  N-2                                  0
//   s    r r r ... r  t  e e ... e  f f f ... f
// s is the sign, r...rt is the regime run and its terminator, e are
// ES exponent bits and f the fraction. Negative values are stored
// as the two's complement of the positive ones.
// The pattern with only the sign bit set is NaR (not a real).
// The zero value is 0.
type Posit[P Params] struct {
	bits uint32
}

// New returns a posit with the given bit pattern. Bits above N are dropped.
func New[P Params](bits uint32) Posit[P] {
	return Posit[P]{bits: bits & FormatOf[P]().mask}
}

// Zero returns 0.
func Zero[P Params]() Posit[P] {
	return Posit[P]{}
}

// NaR returns not-a-real.
func NaR[P Params]() Posit[P] {
	return Posit[P]{bits: FormatOf[P]().signBit}
}

// One returns 1.
func One[P Params]() Posit[P] {
	return Posit[P]{bits: FormatOf[P]().signBit >> 1}
}

// MinPos returns the smallest positive posit.
func MinPos[P Params]() Posit[P] {
	return Posit[P]{bits: 1}
}

// MaxPos returns the largest positive posit.
func MaxPos[P Params]() Posit[P] {
	return Posit[P]{bits: FormatOf[P]().bodyMask}
}

// FromFloat64 rounds x to the nearest posit.
// Zeros map to 0, infinities and NaNs to NaR.
// Values beyond MaxPos saturate to MaxPos, nonzero values below MinPos become MinPos.
func FromFloat64[P Params](x float64) Posit[P] {
	switch {
	case x == 0:
		return Zero[P]()
	case math.IsInf(x, 0) || math.IsNaN(x):
		return NaR[P]()
	}
	f := FormatOf[P]()
	fr, exp := math.Frexp(math.Abs(x))
	frac := uint64(math.Ldexp(fr, 64))
	return Posit[P]{bits: signedSat(assemble(int32(exp-1), frac, f), x < 0, f)}
}

// FromFloat32 rounds x to the nearest posit.
func FromFloat32[P Params](x float32) Posit[P] {
	return FromFloat64[P](float64(x))
}

// FromFloat rounds x to the nearest posit.
func FromFloat[P Params, T constraints.Float](x T) Posit[P] {
	return FromFloat64[P](float64(x))
}

// ToFloat converts p to a float type. NaR becomes +Inf.
func ToFloat[T constraints.Float, P Params](p Posit[P]) T {
	return T(p.Float64())
}

// FromDecimal rounds d to the nearest posit. The conversion is exact up to the single rounding.
func FromDecimal[P Params](d decimal.Decimal) Posit[P] {
	if d.IsZero() {
		return Zero[P]()
	}
	f := FormatOf[P]()
	// far out of range values saturate without building huge rationals.
	digits := len(new(big.Int).Abs(d.Coefficient()).String())
	log10 := float64(d.Exponent()) + float64(digits)
	switch limit := float64(f.maxScale + 1); {
	case (log10-1)*math.Log2(10) > limit:
		return Posit[P]{bits: signed(f.bodyMask, d.Sign() < 0, f)}
	case log10*math.Log2(10) < -limit:
		return Posit[P]{bits: signed(1, d.Sign() < 0, f)}
	}
	r := d.Rat()
	neg := r.Sign() < 0
	r.Abs(r)
	bf := new(big.Float).SetPrec(64).SetMode(big.ToZero).SetRat(r)
	exact := bf.Acc() == big.Exact
	var mant big.Float
	exp := bf.MantExp(&mant)
	frac, _ := mant.SetMantExp(&mant, 64).Uint64()
	if !exact {
		frac |= 1
	}
	return Posit[P]{bits: signedSat(assemble(int32(exp-1), frac, f), neg, f)}
}

// Parse parses a decimal string, like "-1.25" or "3e-4", and rounds it to the nearest posit.
// "NaR" in any case is accepted.
func Parse[P Params](s string) (Posit[P], error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nar") {
		return NaR[P](), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero[P](), Error.Wrap(err)
	}
	return FromDecimal[P](d), nil
}

// MustParse is like Parse but panics on error.
func MustParse[P Params](s string) Posit[P] {
	p, err := Parse[P](s)
	if err != nil {
		panic(err)
	}
	return p
}

// Bits returns the N-bit pattern of p.
func (p Posit[P]) Bits() uint32 {
	return p.bits
}

// Float64 returns p as a float64. NaR becomes +Inf.
// The conversion is exact for every format with less than 54 significand bits.
func (p Posit[P]) Float64() float64 {
	switch {
	case p.IsZero():
		return 0
	case p.IsNaR():
		return math.Inf(1)
	}
	f := FormatOf[P]()
	fl := decompose(p.bits, f)
	m := float64(fl.frac >> (64 - f.fracBits))
	if fl.neg {
		m = -m
	}
	return math.Ldexp(m, int(fl.scale(f.es))-int(f.fracBits-1))
}

// Float32 returns p as a float32. NaR becomes +Inf.
func (p Posit[P]) Float32() float32 {
	return float32(p.Float64())
}

// Decimal returns the exact decimal value of p.
// Returns an error for NaR.
func (p Posit[P]) Decimal() (decimal.Decimal, error) {
	switch {
	case p.IsNaR():
		return decimal.Zero, Error.New("NaR has no decimal value")
	case p.IsZero():
		return decimal.Zero, nil
	}
	f := FormatOf[P]()
	fl := decompose(p.bits, f)
	m := new(big.Int).SetUint64(fl.frac >> (64 - f.fracBits))
	if fl.neg {
		m.Neg(m)
	}
	exp := int(fl.scale(f.es)) - int(f.fracBits-1)
	if exp >= 0 {
		return decimal.NewFromBigInt(m.Lsh(m, uint(exp)), 0), nil
	}
	// m * 2^exp == m * 5^-exp * 10^exp
	pow5 := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(m.Mul(m, pow5), int32(exp)), nil
}

// String returns the exact decimal representation of p, or "NaR".
func (p Posit[P]) String() string {
	d, err := p.Decimal()
	if err != nil {
		return "NaR"
	}
	return d.String()
}

// GoString returns debug string representation.
func (p Posit[P]) GoString() string {
	f := FormatOf[P]()
	return fmt.Sprintf("%0*b %v {%s}", f.n, p.bits, f, p.String())
}

// Format implements fmt.Formatter.
// %b prints the N-bit pattern, %d %o %x %X the pattern as an integer,
// %e %f %g the float64 value, %v %s the exact decimal value, %#v calls GoString.
func (p Posit[P]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'b':
		fmt.Fprintf(s, "%0*b", FormatOf[P]().n, p.bits)
	case 'd', 'o', 'x', 'X':
		fmt.Fprintf(s, fmt.FormatString(s, verb), p.bits)
	case 'e', 'E', 'f', 'F', 'g', 'G':
		fmt.Fprintf(s, fmt.FormatString(s, verb), p.Float64())
	case 'v':
		if s.Flag('#') {
			io.WriteString(s, p.GoString())
			return
		}
		fallthrough
	case 's':
		fmt.Fprintf(s, fmt.FormatString(s, 's'), p.String())
	default:
		fmt.Fprintf(s, "%%!%c(posit=%s)", verb, p.String())
	}
}

// MarshalJSON marshals p as its integer bit pattern.
func (p Posit[P]) MarshalJSON() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(p.bits), 10), nil
}

// UnmarshalJSON unmarshals an integer bit pattern.
func (p *Posit[P]) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseUint(string(data), 10, 32)
	if err != nil {
		return Error.Wrap(err)
	}
	f := FormatOf[P]()
	if uint32(v)&^f.mask != 0 {
		return Error.New("bit pattern %#x does not fit %v", v, f)
	}
	p.bits = uint32(v)
	return nil
}

// Fields is a decoded view of a regular posit.
type Fields struct {
	Negative bool
	// Regime is the regime value k, the value is multiplied by useed^k.
	Regime   int
	Exponent uint
	// Fraction holds FractionBits fraction bits, the hidden bit excluded.
	Fraction     uint64
	FractionBits int
	// Scale is Regime * 2^ES + Exponent, the binary exponent of the value.
	Scale int
}

// Fields decodes p. ok is false for 0 and NaR.
func (p Posit[P]) Fields() (fl Fields, ok bool) {
	if p.IsZero() || p.IsNaR() {
		return fl, false
	}
	f := FormatOf[P]()
	d := decompose(p.bits, f)
	skip := int(d.run) + 1
	if !d.negRegime {
		skip++
	}
	fracBits := mathutil.Clamp(int(f.n)-1-skip-int(f.es), 0, int(f.fracBits)-1)
	fl = Fields{
		Negative:     d.neg,
		Regime:       int(d.regime()),
		Exponent:     uint(d.exp),
		FractionBits: fracBits,
		Scale:        int(d.scale(f.es)),
	}
	if fracBits > 0 {
		fl.Fraction = d.frac << 1 >> (64 - fracBits)
	}
	return fl, true
}
