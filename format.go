// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"fmt"
	"math"
)

const (
	minWidth = 3
	maxWidth = 32

	// scales, product scales and accumulator scales must fit an int32.
	maxScaleLimit = 1 << 27

	registerBits = 128
)

// Format is a posit configuration: the total width N, the exponent field
// width ES and the constants derived from them.
// Formats are immutable and safe for concurrent use.
type Format struct {
	n, es uint8

	signBit  uint32
	mask     uint32
	bodyMask uint32
	fracBits uint  // d = n-es-2, significand bits including the hidden one
	maxScale int32 // (n-2) * 2^es
	bias     int32 // quire bias, 2 * maxScale

	quireErr error
}

// NewFormat validates n and es and returns the corresponding format.
func NewFormat(n, es uint8) (*Format, error) {
	if n < minWidth || n > maxWidth {
		return nil, Error.New("width %d out of range [%d, %d]", n, minWidth, maxWidth)
	}
	if es > n-minWidth {
		return nil, Error.New("exponent width %d too large for a %d-bit posit", es, n)
	}
	if uint64(n-2)<<es > maxScaleLimit {
		return nil, Error.New("scale range of posit<%d,%d> overflows", n, es)
	}
	f := &Format{
		n:        n,
		es:       es,
		signBit:  1 << (n - 1),
		mask:     math.MaxUint32 >> (maxWidth - n),
		bodyMask: math.MaxUint32 >> (maxWidth + 1 - n),
		fracBits: uint(n - es - 2),
		maxScale: int32(n-2) << es,
	}
	f.bias = 2 * f.maxScale
	f.quireErr = f.checkQuire()
	return f, nil
}

// MustFormat is like NewFormat but panics on error.
func MustFormat(n, es uint8) *Format {
	f, err := NewFormat(n, es)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Format) checkQuire() error {
	if f.n-f.es < 4 {
		return Error.New("%v: quire needs at least two significand bits", f)
	}
	if 2*f.bias+2 > registerBits-1 {
		return Error.New("%v: quire bias %d does not fit a %d-bit register", f, f.bias, registerBits)
	}
	return nil
}

// N returns the total width in bits.
func (f *Format) N() int { return int(f.n) }

// ES returns the exponent field width in bits.
func (f *Format) ES() int { return int(f.es) }

// Useed returns 2^(2^ES), the factor contributed by one step of the regime.
func (f *Format) Useed() float64 { return math.Ldexp(1, 1<<f.es) }

// MaxScale returns the binary exponent of MaxPos. MinPos is 2^-MaxScale.
func (f *Format) MaxScale() int { return int(f.maxScale) }

// FracBits returns the number of significand bits, hidden bit included,
// of the most precise values of the format.
func (f *Format) FracBits() int { return int(f.fracBits) }

// Bias returns the position of the binary point of a Quire minus one.
func (f *Format) Bias() int { return int(f.bias) }

// QuireErr returns a non-nil error if the format cannot be accumulated
// in a 128-bit Quire.
func (f *Format) QuireErr() error { return f.quireErr }

// FLQuireErr returns a non-nil error if an FLQuire with size significant bits
// cannot hold values of this format.
func (f *Format) FLQuireErr(size uint) error {
	if size < f.fracBits+2 || size > registerBits-1 {
		return Error.New("%v: flquire size %d out of range [%d, %d]", f, size, f.fracBits+2, registerBits-1)
	}
	return nil
}

// String returns a string like "posit<8,1>".
func (f *Format) String() string {
	return fmt.Sprintf("posit<%d,%d>", f.n, f.es)
}

// Params selects a posit format at compile time.
// Implementations are empty structs whose Format method returns a package level *Format.
type Params interface {
	Format() *Format
}

// FormatOf returns the format selected by P.
func FormatOf[P Params]() *Format {
	var p P
	return p.Format()
}

var (
	p6e1  = MustFormat(6, 1)
	p8e0  = MustFormat(8, 0)
	p8e1  = MustFormat(8, 1)
	p8e2  = MustFormat(8, 2)
	p8e3  = MustFormat(8, 3)
	p8e4  = MustFormat(8, 4)
	p8e5  = MustFormat(8, 5)
	p16e1 = MustFormat(16, 1)
	p16e2 = MustFormat(16, 2)
	p16e3 = MustFormat(16, 3)
	p32e2 = MustFormat(32, 2)
)

// Predefined formats.
type (
	P6E1  struct{}
	P8E0  struct{}
	P8E1  struct{}
	P8E2  struct{}
	P8E3  struct{}
	P8E4  struct{}
	P8E5  struct{}
	P16E1 struct{}
	P16E2 struct{}
	P16E3 struct{}
	P32E2 struct{}
)

func (P6E1) Format() *Format  { return p6e1 }
func (P8E0) Format() *Format  { return p8e0 }
func (P8E1) Format() *Format  { return p8e1 }
func (P8E2) Format() *Format  { return p8e2 }
func (P8E3) Format() *Format  { return p8e3 }
func (P8E4) Format() *Format  { return p8e4 }
func (P8E5) Format() *Format  { return p8e5 }
func (P16E1) Format() *Format { return p16e1 }
func (P16E2) Format() *Format { return p16e2 }
func (P16E3) Format() *Format { return p16e3 }
func (P32E2) Format() *Format { return p32e2 }

// Width selects the number of significant register bits of an FLQuire.
type Width interface {
	Width() uint
}

// Predefined FLQuire widths.
type (
	W20 struct{}
	W32 struct{}
	W64 struct{}
)

func (W20) Width() uint { return 20 }
func (W32) Width() uint { return 32 }
func (W64) Width() uint { return 64 }
