// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"

	num "github.com/shabbyrobe/go-num"

	"github.com/avdva/posit/internal/mathutil"
)

// FLQuire is a floating-scale accumulator for posits of format P.
// It keeps S.Width() significant bits of a two's complement mantissa and
// a binary scale factor, value = reg * 2^(sf - (SIZE-3)):
//   SIZE-1  SIZE-2  SIZE-3              0
//   sign    guard   unit    fraction...
// After every operation the register is renormalized, so that the guard bit
// equals the sign bit, by shifting it right and incrementing the scale.
// The zero value is 0. FLQuire has no NaR, NaR posits convert to 0.
type FLQuire[P Params, S Width] struct {
	reg num.U128
	sf  int32
}

func flquireFormat[P Params, S Width]() (*Format, uint) {
	var s S
	f, size := FormatOf[P](), s.Width()
	if err := f.FLQuireErr(size); err != nil {
		panic(err)
	}
	return f, size
}

// ZeroFLQuire returns an empty accumulator.
func ZeroFLQuire[P Params, S Width]() FLQuire[P, S] {
	flquireFormat[P, S]()
	return FLQuire[P, S]{}
}

// OneFLQuire returns an accumulator holding 1.
func OneFLQuire[P Params, S Width]() FLQuire[P, S] {
	_, size := flquireFormat[P, S]()
	return FLQuire[P, S]{reg: mathutil.Bit128(size - 3)}
}

// FLQuireFrom converts p into an accumulator exactly.
func FLQuireFrom[P Params, S Width](p Posit[P]) FLQuire[P, S] {
	f, size := flquireFormat[P, S]()
	if p.IsZero() || p.IsNaR() {
		return FLQuire[P, S]{}
	}
	fl := decompose(p.bits, f)
	reg := num.U128From64(fl.frac >> (64 - f.fracBits)).Lsh(size - 2 - f.fracBits)
	if fl.neg {
		reg = mathutil.Neg128(reg)
	}
	return FLQuire[P, S]{reg: reg, sf: fl.scale(f.es)}
}

// Posit rounds q to the nearest posit.
// Nonzero values never round to 0, they saturate to ±MinPos.
func (q FLQuire[P, S]) Posit() Posit[P] {
	f, size := flquireFormat[P, S]()
	if q.reg.IsZero() {
		return Zero[P]()
	}
	mag, neg := mathutil.Abs128(q.reg)
	frac, pos := mathutil.Normalize128(mag)
	scale := q.sf + int32(pos) - int32(size-3)
	return Posit[P]{bits: signedSat(assemble(scale, frac, f), neg, f)}
}

// renormalize moves an overflow of the unit bit into the scale factor.
func renormalize[P Params, S Width](reg num.U128, sf int32, size uint) FLQuire[P, S] {
	if mathutil.TestBit128(reg, size-1) != mathutil.TestBit128(reg, size-2) {
		reg = mathutil.Sar128(reg, 1)
		sf++
	}
	return FLQuire[P, S]{reg: reg, sf: sf}
}

// IsZero returns true if q == 0.
func (q FLQuire[P, S]) IsZero() bool {
	return q.reg.IsZero()
}

// IsOne returns true if q == 1.
func (q FLQuire[P, S]) IsOne() bool {
	return q == OneFLQuire[P, S]()
}

// Add returns q + r. The operand with the smaller scale factor
// is aligned to the other one, its bits shifted out are lost.
func (q FLQuire[P, S]) Add(r FLQuire[P, S]) FLQuire[P, S] {
	switch {
	case q.IsZero():
		return r
	case r.IsZero():
		return q
	}
	_, size := flquireFormat[P, S]()
	a, b := r, q
	if q.sf > r.sf {
		a, b = q, r
	}
	reg := a.reg.Add(mathutil.Sar128(b.reg, uint(a.sf-b.sf)))
	return renormalize[P, S](reg, a.sf, size)
}

// Sub returns q - r.
func (q FLQuire[P, S]) Sub(r FLQuire[P, S]) FLQuire[P, S] {
	return q.Add(r.Neg())
}

// Neg returns -q.
func (q FLQuire[P, S]) Neg() FLQuire[P, S] {
	return FLQuire[P, S]{reg: mathutil.Neg128(q.reg), sf: q.sf}
}

// Mul returns q * r. The product is exact for accumulators converted from posits.
func (q FLQuire[P, S]) Mul(r FLQuire[P, S]) FLQuire[P, S] {
	switch {
	case q.IsZero() || r.IsZero():
		return FLQuire[P, S]{}
	case q.IsOne():
		return r
	case r.IsOne():
		return q
	}
	_, size := flquireFormat[P, S]()
	reg := mathutil.MulShift128(q.reg, r.reg, size-3)
	return renormalize[P, S](reg, q.sf+r.sf, size)
}

// Div is not implemented and always returns 0.
func (q FLQuire[P, S]) Div(r FLQuire[P, S]) FLQuire[P, S] {
	return FLQuire[P, S]{}
}

// MulAdd returns q + a*b.
// NaR operands contribute nothing.
func (q FLQuire[P, S]) MulAdd(a, b Posit[P]) FLQuire[P, S] {
	return q.Add(FLQuireFrom[P, S](a).Mul(FLQuireFrom[P, S](b)))
}

// Scale returns the scale factor.
func (q FLQuire[P, S]) Scale() int {
	return int(q.sf)
}

// Bits returns the raw two's complement register.
func (q FLQuire[P, S]) Bits() num.U128 {
	return q.reg
}

// String returns the significant register bits and the scale factor.
func (q FLQuire[P, S]) String() string {
	_, size := flquireFormat[P, S]()
	hi, lo := q.reg.And(mathutil.Not128(mathutil.HighOnes128(registerBits - size))).Raw()
	if size <= 64 {
		return fmt.Sprintf("%0*b sf:%d", size, lo, q.sf)
	}
	return fmt.Sprintf("%0*b%064b sf:%d", size-64, hi, lo, q.sf)
}
