// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import "math/bits"

// IsZero returns true if p == 0.
func (p Posit[P]) IsZero() bool {
	return p.bits == 0
}

// IsNaR returns true if p is not-a-real.
func (p Posit[P]) IsNaR() bool {
	return p.bits == FormatOf[P]().signBit
}

// IsOne returns true if p == 1.
func (p Posit[P]) IsOne() bool {
	return p.bits == FormatOf[P]().signBit>>1
}

// IsNegative returns true if the sign bit of p is set. This includes NaR.
func (p Posit[P]) IsNegative() bool {
	return p.bits&FormatOf[P]().signBit != 0
}

// IsPositive returns true if p > 0.
func (p Posit[P]) IsPositive() bool {
	return p.bits != 0 && !p.IsNegative()
}

// Neg returns -p. -NaR is NaR, -0 is 0.
func (p Posit[P]) Neg() Posit[P] {
	return Posit[P]{bits: -p.bits & FormatOf[P]().mask}
}

// Abs returns |p|.
func (p Posit[P]) Abs() Posit[P] {
	if p.IsNegative() {
		return p.Neg()
	}
	return p
}

// Sign returns -1 if p < 0, 0 if p == 0, +1 if p > 0.
// NaR is reported as -1.
func (p Posit[P]) Sign() int {
	switch {
	case p.IsZero():
		return 0
	case p.IsNegative():
		return -1
	default:
		return 1
	}
}

// Signum returns -1, 0 or 1 as a posit, or NaR if p is NaR.
func (p Posit[P]) Signum() Posit[P] {
	switch {
	case p.IsNaR(), p.IsZero():
		return p
	case p.IsNegative():
		return One[P]().Neg()
	default:
		return One[P]()
	}
}

// toInt32 sign-extends the N-bit pattern.
func (p Posit[P]) toInt32() int32 {
	shift := maxWidth - FormatOf[P]().n
	return int32(p.bits<<shift) >> shift
}

// Cmp compares two posits.
// Returns -1 if p < q, 0 if p == q, 1 if p > q.
// ok is false, if any of p and q is NaR, which is unordered.
func (p Posit[P]) Cmp(q Posit[P]) (res int, ok bool) {
	if p.IsNaR() || q.IsNaR() {
		return 0, false
	}
	a, b := p.toInt32(), q.toInt32()
	switch {
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	default:
		return 0, true
	}
}

// Less returns true if p < q. It is false if any of them is NaR.
func (p Posit[P]) Less(q Posit[P]) bool {
	res, ok := p.Cmp(q)
	return ok && res < 0
}

// LessEq returns true if p <= q. It is false if any of them is NaR.
func (p Posit[P]) LessEq(q Posit[P]) bool {
	res, ok := p.Cmp(q)
	return ok && res <= 0
}

// Add returns p + q, rounded to the nearest posit.
// NaR is absorbing.
func (p Posit[P]) Add(q Posit[P]) Posit[P] {
	switch {
	case p.IsNaR() || q.IsNaR():
		return NaR[P]()
	case p.IsZero():
		return q
	case q.IsZero():
		return p
	case p == q.Neg():
		return Zero[P]()
	}
	f := FormatOf[P]()
	a, b := decompose(p.bits, f), decompose(q.bits, f)
	if a.mag < b.mag {
		a, b = b, a
	}
	sa, sb := a.scale(f.es), b.scale(f.es)
	shift := uint(sa - sb)
	if shift > uint(f.n-1) {
		shift = uint(f.n - 1)
	}
	// one bit of headroom for the carry.
	fa, fb := a.frac>>1, b.frac>>shift>>1
	var sum uint64
	if a.neg != b.neg {
		sum = fa - fb
	} else {
		sum = fa + fb
	}
	carry := int32(sum >> 63)
	if carry == 0 {
		sum <<= 1
	}
	lz := bits.LeadingZeros64(sum)
	sum <<= uint(lz)
	return Posit[P]{bits: signed(assemble(sa+carry-int32(lz), sum, f), a.neg, f)}
}

// Sub returns p - q, rounded to the nearest posit.
func (p Posit[P]) Sub(q Posit[P]) Posit[P] {
	switch {
	case p.IsNaR() || q.IsNaR():
		return NaR[P]()
	case p.IsZero():
		return q.Neg()
	case q.IsZero():
		return p
	case p == q:
		return Zero[P]()
	}
	return p.Add(q.Neg())
}

// Mul returns p * q, rounded to the nearest posit.
// A nonzero product never rounds to 0, it saturates to ±MinPos.
func (p Posit[P]) Mul(q Posit[P]) Posit[P] {
	switch {
	case p.IsNaR() || q.IsNaR():
		return NaR[P]()
	case p.IsZero() || q.IsZero():
		return Zero[P]()
	case p.IsOne():
		return q
	case q.IsOne():
		return p
	}
	f := FormatOf[P]()
	a, b := decompose(p.bits, f), decompose(q.bits, f)
	d := f.fracBits
	prod := (a.frac >> (64 - d)) * (b.frac >> (64 - d))
	prod <<= 64 - 2*d
	carry := int32(prod >> 63)
	if carry == 0 {
		prod <<= 1
	}
	scale := a.scale(f.es) + b.scale(f.es) + carry
	return Posit[P]{bits: signedSat(assemble(scale, prod, f), a.neg != b.neg, f)}
}

// Div is not implemented. It returns NaR if any of p and q is NaR, and 0 otherwise.
func (p Posit[P]) Div(q Posit[P]) Posit[P] {
	if p.IsNaR() || q.IsNaR() {
		return NaR[P]()
	}
	return Zero[P]()
}

// Rem is not implemented. It returns NaR if any of p and q is NaR, and 0 otherwise.
func (p Posit[P]) Rem(q Posit[P]) Posit[P] {
	return p.Div(q)
}

// Dim returns the positive difference: p - q if p > q, and 0 otherwise.
func (p Posit[P]) Dim(q Posit[P]) Posit[P] {
	if p.IsNaR() || q.IsNaR() {
		return NaR[P]()
	}
	if p.LessEq(q) {
		return Zero[P]()
	}
	return p.Sub(q)
}
