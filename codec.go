// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"math/bits"

	num "github.com/shabbyrobe/go-num"

	"github.com/avdva/posit/internal/mathutil"
)

// fields is a decoded regular posit.
type fields struct {
	neg       bool
	negRegime bool   // the regime is a run of zeros
	run       int32  // zero run length, or one run length minus one
	exp       uint32 // exponent field, missing low bits are zero
	frac      uint64 // significand with the hidden bit at 63
	mag       uint32 // n-1 magnitude bits, left-justified
}

func (fl fields) regime() int32 {
	if fl.negRegime {
		return -fl.run
	}
	return fl.run
}

// scale returns the binary exponent of the value: regime * 2^es + exp.
func (fl fields) scale(es uint8) int32 {
	return fl.regime()<<es + int32(fl.exp)
}

// decompose splits w into its fields.
// w must not be zero or NaR.
func decompose(w uint32, f *Format) fields {
	var fl fields
	fl.neg = w&f.signBit != 0
	if fl.neg {
		w = -w
	}
	fl.mag = w << (maxWidth + 1 - f.n)
	fl.negRegime = fl.mag>>31 == 0
	var skip int32
	if fl.negRegime {
		fl.run = int32(bits.LeadingZeros32(fl.mag))
		skip = fl.run + 1
	} else {
		fl.run = int32(mathutil.LeadingOnes32(fl.mag)) - 1
		skip = fl.run + 2
	}
	rest := fl.mag << uint(skip)
	fl.exp = rest >> (maxWidth - f.es)
	fl.frac = uint64(rest<<f.es)<<31 | 1<<63
	return fl
}

// assemble encodes scale and frac (hidden bit at 63) into n-1 magnitude bits,
// rounding half to even. The sign is never set.
// A result of zero means the magnitude is below minpos.
func assemble(scale int32, frac uint64, f *Format) uint32 {
	k := scale >> f.es
	exp := uint64(scale - k<<f.es)
	var run int32
	if k < 0 {
		run = -k
	} else {
		run = k + 1
	}
	keep := uint(f.n - 1)
	saturated := run >= int32(keep)
	if saturated {
		run = int32(keep)
	}

	// [regime][terminator][exponent][fraction] left-justified in 128 bits.
	probe := num.U128FromRaw(frac<<1, 0).Rsh(uint(f.es)).Or(num.U128FromRaw(exp<<(64-f.es), 0))
	probe = probe.Rsh(1)
	if k < 0 {
		probe = probe.Or(mathutil.Bit128(registerBits - 1))
	}
	probe = probe.Rsh(uint(run))
	if k >= 0 {
		probe = probe.Or(mathutil.HighOnes128(uint(run)))
	}

	hi, _ := probe.Raw()
	body := uint32(hi >> (64 - keep))
	if saturated {
		return body
	}
	last := body&1 != 0
	guard := mathutil.TestBit128(probe, registerBits-1-keep)
	sticky := !probe.Lsh(keep + 1).IsZero()
	if guard && (sticky || last) {
		body++
	}
	return body
}

// signed applies the sign to a magnitude produced by assemble.
func signed(body uint32, neg bool, f *Format) uint32 {
	if neg && body != 0 {
		return (-body)&f.bodyMask | f.signBit
	}
	return body
}

// signedSat is like signed, but maps a zero magnitude to minpos.
func signedSat(body uint32, neg bool, f *Format) uint32 {
	if body == 0 {
		body = 1
	}
	return signed(body, neg, f)
}
