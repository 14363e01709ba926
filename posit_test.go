// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type p8 = Posit[P8E1]

func TestConstants(t *testing.T) {
	a := assert.New(t)
	a.Equal(uint32(0), Zero[P8E1]().Bits())
	a.Equal(uint32(0x80), NaR[P8E1]().Bits())
	a.Equal(uint32(0x40), One[P8E1]().Bits())
	a.Equal(uint32(0x01), MinPos[P8E1]().Bits())
	a.Equal(uint32(0x7F), MaxPos[P8E1]().Bits())
	a.Equal(uint32(0x80000000), NaR[P32E2]().Bits())
	a.Equal(uint32(0x40000000), One[P32E2]().Bits())
	a.Equal(uint32(0x7FFFFFFF), MaxPos[P32E2]().Bits())
	a.Equal(uint32(0x20), NaR[P6E1]().Bits())

	a.Equal(uint32(0x34), New[P8E1](0x1234).Bits())
	a.Equal(p8{}, Zero[P8E1]())
}

func TestFloatValues(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		bits uint32
		res  float64
	}{
		{0x00, 0},
		{0x40, 1},
		{0x48, 1.5},
		{0x50, 2},
		{0x52, 2.25},
		{0x58, 3},
		{0x60, 4},
		{0x30, 0.5},
		{0x15, 0.1015625},
		{0x01, 1.0 / 4096},
		{0x02, 1.0 / 1024},
		{0x7E, 1024},
		{0x7F, 4096},
		{0xC0, -1},
		{0xB8, -1.5},
		{0x81, -4096},
		{0xFF, -1.0 / 4096},
		{0x80, math.Inf(1)},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p := New[P8E1](test.bits)
			a.Equal(test.res, p.Float64())
			a.Equal(float32(test.res), p.Float32())
			a.Equal(float32(test.res), ToFloat[float32](p))
		})
	}
}

func checkFloatRoundTrip[P Params](t *testing.T) {
	a := assert.New(t)
	f := FormatOf[P]()
	for w := uint32(0); w <= f.mask; w++ {
		p := New[P](w)
		a.Equal(p, FromFloat32[P](p.Float32()), "%#v", p)
		a.Equal(p, FromFloat64[P](p.Float64()), "%#v", p)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	t.Run("p6e1", checkFloatRoundTrip[P6E1])
	t.Run("p8e0", checkFloatRoundTrip[P8E0])
	t.Run("p8e1", checkFloatRoundTrip[P8E1])
	t.Run("p8e2", checkFloatRoundTrip[P8E2])
	t.Run("p16e1", checkFloatRoundTrip[P16E1])
	t.Run("p16e2", checkFloatRoundTrip[P16E2])
	t.Run("p8e3", checkFloatRoundTrip[P8E3])
	t.Run("p8e4", checkFloatRoundTrip[P8E4])
	t.Run("p16e3", checkFloatRoundTrip[P16E3])
}

func TestWideExponentFormat(t *testing.T) {
	a := assert.New(t)
	f := FormatOf[P8E5]()
	a.Equal(192, f.MaxScale())
	a.Equal(1, f.FracBits())
	for w := uint32(0); w <= f.mask; w++ {
		p := New[P8E5](w)
		a.Equal(p, FromFloat64[P8E5](p.Float64()), "%#v", p)
	}
	a.Equal(math.Ldexp(1, 192), MaxPos[P8E5]().Float64())
	a.Equal(math.Ldexp(1, -192), MinPos[P8E5]().Float64())
	// beyond the float32 range
	a.True(math.IsInf(float64(MaxPos[P8E5]().Float32()), 1))
	a.Equal(MaxPos[P8E5](), MustParse[P8E5]("1e100"))
}

func TestFromFloat(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		f   float64
		res uint32
	}{
		{0, 0x00},
		{math.Copysign(0, -1), 0x00},
		{math.NaN(), 0x80},
		{math.Inf(1), 0x80},
		{math.Inf(-1), 0x80},
		{1, 0x40},
		{-1, 0xC0},
		{1.5, 0x48},
		{0.1, 0x15},
		{1 + 1.0/32, 0x40},
		{1 + 3.0/32, 0x42},
		{1 + 1.0/32 + 1.0/1024, 0x41},
		{1e30, 0x7F},
		{-1e30, 0x81},
		{math.MaxFloat64, 0x7F},
		{1e-30, 0x01},
		{-1e-30, 0xFF},
		{math.SmallestNonzeroFloat64, 0x01},
		{3000, 0x7F},
		{2000, 0x7E},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.res, FromFloat64[P8E1](test.f).Bits())
			a.Equal(test.res, FromFloat[P8E1](test.f).Bits())
		})
	}
}

func TestParse(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		s   string
		res uint32
		err bool
	}{
		{"1.5", 0x48, false},
		{" 2.25 ", 0x52, false},
		{"-1.5", 0xB8, false},
		{"0", 0x00, false},
		{"-0.0", 0x00, false},
		{"NaR", 0x80, false},
		{"nar", 0x80, false},
		{"0.1", 0x15, false},
		{"1.03125", 0x40, false},
		{"1.03125000000000000000000000001", 0x41, false},
		{"1.09375", 0x42, false},
		{"1e-30", 0x01, false},
		{"-1e30", 0x81, false},
		{"4096", 0x7F, false},
		{"1e1000", 0x7F, false},
		{"abc", 0, true},
		{"", 0, true},
		{"1.2.3", 0, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p, err := Parse[P8E1](test.s)
			if test.err {
				a.Error(err)
				a.True(Error.Has(err))
				return
			}
			if a.NoError(err) {
				a.Equal(test.res, p.Bits())
			}
		})
	}
	a.Panics(func() { MustParse[P8E1]("x") })
	a.Equal(One[P16E1](), MustParse[P16E1]("1"))
}

func TestString(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		bits uint32
		res  string
	}{
		{0x00, "0"},
		{0x80, "NaR"},
		{0x40, "1"},
		{0x48, "1.5"},
		{0xB8, "-1.5"},
		{0x15, "0.1015625"},
		{0x01, "0.000244140625"},
		{0x7F, "4096"},
		{0x81, "-4096"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			p := New[P8E1](test.bits)
			a.Equal(test.res, p.String())
			if test.bits == 0x80 {
				_, err := p.Decimal()
				a.Error(err)
				return
			}
			d, err := p.Decimal()
			if a.NoError(err) {
				a.True(d.Equal(decimal.RequireFromString(test.res)))
				a.Equal(p, FromDecimal[P8E1](d))
			}
		})
	}
}

func TestStringExhaustive(t *testing.T) {
	a := assert.New(t)
	for w := uint32(0); w <= 0xFF; w++ {
		p := New[P8E1](w)
		q, err := Parse[P8E1](p.String())
		if a.NoError(err) {
			a.Equal(p, q, "%#v", p)
		}
	}
	for w := uint32(0); w <= 0xFFFF; w += 7 {
		p := New[P16E2](w)
		a.Equal(p, MustParse[P16E2](p.String()), "%#v", p)
	}
}

func TestFormatVerbs(t *testing.T) {
	a := assert.New(t)
	p := New[P8E1](0x48)
	tests := []struct {
		format string
		res    string
	}{
		{"%b", "01001000"},
		{"%v", "1.5"},
		{"%s", "1.5"},
		{"%5v", "  1.5"},
		{"%-5s|", "1.5  |"},
		{"%.2f", "1.50"},
		{"%g", "1.5"},
		{"%d", "72"},
		{"%x", "48"},
		{"%#x", "0x48"},
		{"%#v", "01001000 posit<8,1> {1.5}"},
		{"%q", "%!q(posit=1.5)"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.res, fmt.Sprintf(test.format, p))
		})
	}
	a.Equal("000001", fmt.Sprintf("%b", MinPos[P6E1]()))
	a.Equal("NaR", fmt.Sprint(NaR[P8E1]()))
}

func TestJSON(t *testing.T) {
	a := assert.New(t)
	type doc struct {
		V p8
		W Posit[P16E1]
	}
	data, err := json.Marshal(doc{V: New[P8E1](0x48), W: One[P16E1]()})
	require.NoError(t, err)
	a.Equal(`{"V":72,"W":16384}`, string(data))

	var d doc
	a.NoError(json.Unmarshal([]byte(`{"V":128,"W":1}`), &d))
	a.True(d.V.IsNaR())
	a.Equal(MinPos[P16E1](), d.W)

	a.Error(json.Unmarshal([]byte(`{"V":256}`), &d))
	a.Error(json.Unmarshal([]byte(`{"V":-1}`), &d))
	a.Error(json.Unmarshal([]byte(`{"V":"1.5"}`), &d))
}

func TestFields(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		bits uint32
		res  Fields
		ok   bool
	}{
		{0x00, Fields{}, false},
		{0x80, Fields{}, false},
		{0x48, Fields{Regime: 0, Exponent: 0, Fraction: 0x8, FractionBits: 4, Scale: 0}, true},
		{0x53, Fields{Regime: 0, Exponent: 1, Fraction: 0x3, FractionBits: 4, Scale: 1}, true},
		{0xB8, Fields{Negative: true, Fraction: 0x8, FractionBits: 4}, true},
		{0x01, Fields{Regime: -6, Scale: -12}, true},
		{0x03, Fields{Regime: -5, Exponent: 1, Scale: -9}, true},
		{0x7F, Fields{Regime: 6, Scale: 12}, true},
		{0x15, Fields{Regime: -2, Exponent: 0, Fraction: 0x5, FractionBits: 3, Scale: -4}, true},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			fl, ok := New[P8E1](test.bits).Fields()
			a.Equal(test.ok, ok)
			a.Equal(test.res, fl)
		})
	}
}
