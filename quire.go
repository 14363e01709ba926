// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"

	num "github.com/shabbyrobe/go-num"

	"github.com/avdva/posit/internal/mathutil"
)

// Quire is an exact fixed-point accumulator for posits of format P.
// It is a 128-bit two's complement register with the binary point
// BIAS+1 bits from the bottom, where BIAS = 2^(ES+1) * (N-2):
// products of any two posits of the format are held without loss.
// The zero value is 0. Quire has no NaR, NaR posits convert to 0.
//
// Formats whose QuireErr is not nil can't be used with Quire,
// and all the constructors panic for them.
type Quire[P Params] struct {
	reg num.U128
}

func quireFormat[P Params]() *Format {
	f := FormatOf[P]()
	if f.quireErr != nil {
		panic(f.quireErr)
	}
	return f
}

// ZeroQuire returns an empty quire.
func ZeroQuire[P Params]() Quire[P] {
	quireFormat[P]()
	return Quire[P]{}
}

// OneQuire returns a quire holding 1.
func OneQuire[P Params]() Quire[P] {
	f := quireFormat[P]()
	return Quire[P]{reg: mathutil.Bit128(uint(f.bias + 1))}
}

// QuireFrom converts p into a quire exactly.
func QuireFrom[P Params](p Posit[P]) Quire[P] {
	f := quireFormat[P]()
	if p.IsZero() || p.IsNaR() {
		return Quire[P]{}
	}
	fl := decompose(p.bits, f)
	shift := mathutil.Clamp(f.bias+fl.scale(f.es), 0, registerBits-1)
	reg := num.U128From64(fl.frac >> (64 - f.fracBits)).Lsh(uint(shift))
	if fl.neg {
		reg = mathutil.Neg128(reg)
	}
	return Quire[P]{reg: mathutil.Sar128(reg, f.fracBits-2)}
}

// Posit rounds q to the nearest posit.
// Nonzero values never round to 0, they saturate to ±MinPos.
func (q Quire[P]) Posit() Posit[P] {
	f := quireFormat[P]()
	if q.reg.IsZero() {
		return Zero[P]()
	}
	mag, neg := mathutil.Abs128(q.reg)
	frac, pos := mathutil.Normalize128(mag)
	scale := int32(pos) - (f.bias + 1)
	return Posit[P]{bits: signedSat(assemble(scale, frac, f), neg, f)}
}

// IsZero returns true if q == 0.
func (q Quire[P]) IsZero() bool {
	return q.reg.IsZero()
}

// IsOne returns true if q == 1.
func (q Quire[P]) IsOne() bool {
	return q.reg.Equal(OneQuire[P]().reg)
}

// Add returns q + r. The sum is exact unless the register overflows,
// in which case it wraps around.
func (q Quire[P]) Add(r Quire[P]) Quire[P] {
	switch {
	case q.IsZero():
		return r
	case r.IsZero():
		return q
	}
	return Quire[P]{reg: q.reg.Add(r.reg)}
}

// Sub returns q - r.
func (q Quire[P]) Sub(r Quire[P]) Quire[P] {
	return q.Add(r.Neg())
}

// Neg returns -q.
func (q Quire[P]) Neg() Quire[P] {
	return Quire[P]{reg: mathutil.Neg128(q.reg)}
}

// Mul returns q * r, truncated towards -Inf to the register precision.
// Products of two quires converted from posits are exact.
func (q Quire[P]) Mul(r Quire[P]) Quire[P] {
	switch {
	case q.IsZero() || r.IsZero():
		return Quire[P]{}
	case q.IsOne():
		return r
	case r.IsOne():
		return q
	}
	f := quireFormat[P]()
	return Quire[P]{reg: mathutil.MulShift128(q.reg, r.reg, uint(f.bias+1))}
}

// Div is not implemented and always returns 0.
func (q Quire[P]) Div(r Quire[P]) Quire[P] {
	return Quire[P]{}
}

// MulAdd returns q + a*b, where the product is exact.
// NaR operands contribute nothing.
func (q Quire[P]) MulAdd(a, b Posit[P]) Quire[P] {
	return q.Add(QuireFrom(a).Mul(QuireFrom(b)))
}

// Bits returns the raw two's complement register.
func (q Quire[P]) Bits() num.U128 {
	return q.reg
}

// String returns the register as 128 binary digits.
func (q Quire[P]) String() string {
	hi, lo := q.reg.Raw()
	return fmt.Sprintf("%064b%064b", hi, lo)
}
