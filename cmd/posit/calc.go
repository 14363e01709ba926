// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/avdva/posit"
)

// calculator runs posit operations for a format chosen at run time.
// Values are passed around as raw bit patterns.
type calculator interface {
	Format() *posit.Format
	New(bits uint32) (uint32, error)
	Parse(s string) (uint32, error)
	String(bits uint32) string
	Describe(bits uint32) string
	Float64(bits uint32) float64
	Neg(bits uint32) uint32
	Apply(op string, a, b uint32) (uint32, error)
	Dot(acc string, size uint, xs, ys []uint32) (uint32, error)
}

var calculators = map[[2]uint8]calculator{
	{6, 1}:  calc[posit.P6E1]{},
	{8, 0}:  calc[posit.P8E0]{},
	{8, 1}:  calc[posit.P8E1]{},
	{8, 2}:  calc[posit.P8E2]{},
	{8, 3}:  calc[posit.P8E3]{},
	{8, 4}:  calc[posit.P8E4]{},
	{8, 5}:  calc[posit.P8E5]{},
	{16, 1}: calc[posit.P16E1]{},
	{16, 2}: calc[posit.P16E2]{},
	{16, 3}: calc[posit.P16E3]{},
	{32, 2}: calc[posit.P32E2]{},
}

func lookup(n, es uint8) (calculator, error) {
	if c, ok := calculators[[2]uint8{n, es}]; ok {
		return c, nil
	}
	keys := maps.Keys(calculators)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, fmt.Sprintf("<%d,%d>", k[0], k[1]))
	}
	return nil, fmt.Errorf("posit<%d,%d> is not supported, use one of %s", n, es, strings.Join(names, " "))
}

type calc[P posit.Params] struct{}

func (calc[P]) Format() *posit.Format {
	return posit.FormatOf[P]()
}

func (c calc[P]) New(bits uint32) (uint32, error) {
	if p := posit.New[P](bits); p.Bits() != bits {
		return 0, fmt.Errorf("bit pattern %#x does not fit %v", bits, c.Format())
	}
	return bits, nil
}

func (calc[P]) Parse(s string) (uint32, error) {
	p, err := posit.Parse[P](s)
	return p.Bits(), err
}

func (calc[P]) String(bits uint32) string {
	return posit.New[P](bits).String()
}

func (c calc[P]) Describe(bits uint32) string {
	p := posit.New[P](bits)
	fl, ok := p.Fields()
	if !ok {
		return fmt.Sprintf("%b %v", p, p)
	}
	sign := "+"
	if fl.Negative {
		sign = "-"
	}
	return fmt.Sprintf("%b %v float:%g sign:%s regime:%d exponent:%d fraction:%0*b scale:%d",
		p, p, c.Float64(bits), sign, fl.Regime, fl.Exponent, fl.FractionBits, fl.Fraction, fl.Scale)
}

func (calc[P]) Float64(bits uint32) float64 {
	return posit.New[P](bits).Float64()
}

func (calc[P]) Neg(bits uint32) uint32 {
	return posit.New[P](bits).Neg().Bits()
}

func (calc[P]) Apply(op string, a, b uint32) (uint32, error) {
	p, q := posit.New[P](a), posit.New[P](b)
	switch op {
	case "+", "add":
		return p.Add(q).Bits(), nil
	case "-", "sub":
		return p.Sub(q).Bits(), nil
	case "*", "mul":
		return p.Mul(q).Bits(), nil
	case "/", "div":
		return p.Div(q).Bits(), nil
	}
	return 0, fmt.Errorf("unknown operation %q", op)
}

// Dot returns the dot product of xs and ys accumulated in acc:
// posit rounds after every step, quire and flquire round once.
// Accumulators have no NaR, so any NaR input gives NaR for all of them.
func (c calc[P]) Dot(acc string, size uint, xs, ys []uint32) (uint32, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("vector lengths differ: %d and %d", len(xs), len(ys))
	}
	nar := posit.NaR[P]()
	for i := range xs {
		if posit.New[P](xs[i]).IsNaR() || posit.New[P](ys[i]).IsNaR() {
			return nar.Bits(), nil
		}
	}
	switch acc {
	case "posit":
		sum := posit.Zero[P]()
		for i := range xs {
			sum = sum.Add(posit.New[P](xs[i]).Mul(posit.New[P](ys[i])))
		}
		return sum.Bits(), nil
	case "quire":
		if err := c.Format().QuireErr(); err != nil {
			return 0, err
		}
		q := posit.ZeroQuire[P]()
		for i := range xs {
			q = q.MulAdd(posit.New[P](xs[i]), posit.New[P](ys[i]))
		}
		return q.Posit().Bits(), nil
	case "flquire":
		switch size {
		case 20:
			return dotFL[P, posit.W20](xs, ys)
		case 32:
			return dotFL[P, posit.W32](xs, ys)
		case 64:
			return dotFL[P, posit.W64](xs, ys)
		}
		return 0, fmt.Errorf("unsupported flquire size %d, use 20, 32 or 64", size)
	}
	return 0, fmt.Errorf("unknown accumulator %q", acc)
}

func dotFL[P posit.Params, S posit.Width](xs, ys []uint32) (uint32, error) {
	var s S
	if err := posit.FormatOf[P]().FLQuireErr(s.Width()); err != nil {
		return 0, err
	}
	q := posit.ZeroFLQuire[P, S]()
	for i := range xs {
		q = q.MulAdd(posit.New[P](xs[i]), posit.New[P](ys[i]))
	}
	return q.Posit().Bits(), nil
}
