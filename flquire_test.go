// Copyright 2020 Aleksandr Demakin. All rights reserved.

package posit

import (
	"math/rand"
	"testing"

	num "github.com/shabbyrobe/go-num"
	"github.com/stretchr/testify/assert"
)

type fl8 = FLQuire[P8E1, W20]

func TestFLQuireConstants(t *testing.T) {
	a := assert.New(t)
	one := OneFLQuire[P8E1, W20]()
	a.Equal(num.U128From64(1<<17), one.Bits())
	a.Equal(0, one.Scale())
	a.True(one.IsOne())
	a.Equal(one, FLQuireFrom[P8E1, W20](One[P8E1]()))
	a.Equal(One[P8E1](), one.Posit())
	a.True(ZeroFLQuire[P8E1, W20]().IsZero())
	a.Equal(fl8{}, FLQuireFrom[P8E1, W20](NaR[P8E1]()))
	a.Equal(Zero[P8E1](), fl8{}.Posit())
	a.Equal("00100000000000000000 sf:0", one.String())
	a.Equal("11100000000000000000 sf:0", one.Neg().String())

	a.Panics(func() { ZeroFLQuire[P32E2, W20]() })
	a.NotPanics(func() { ZeroFLQuire[P32E2, W64]() })
}

func TestFLQuireFrom(t *testing.T) {
	a := assert.New(t)
	q := FLQuireFrom[P8E1, W20](MustParse[P8E1]("-1.5"))
	a.Equal(0, q.Scale())
	a.Equal(num.U128FromRaw(^uint64(0), ^uint64(0)-(3<<16)+1), q.Bits())

	q = FLQuireFrom[P8E1, W20](MaxPos[P8E1]())
	a.Equal(12, q.Scale())
	q = FLQuireFrom[P8E1, W20](MinPos[P8E1]())
	a.Equal(-12, q.Scale())
}

func checkFLQuire[P Params, S Width](t *testing.T, ps []Posit[P]) {
	a := assert.New(t)
	for _, p := range ps {
		a.Equal(p, FLQuireFrom[P, S](p).Posit(), "%#v", p)
	}
	for _, p := range ps {
		qp := FLQuireFrom[P, S](p)
		for _, q := range ps {
			qq := FLQuireFrom[P, S](q)
			a.Equal(p.Add(q), qp.Add(qq).Posit(), "%#v + %#v", p, q)
			a.Equal(p.Sub(q), qp.Sub(qq).Posit(), "%#v - %#v", p, q)
			a.Equal(p.Mul(q), qp.Mul(qq).Posit(), "%#v * %#v", p, q)
			a.Equal(p.Mul(q), ZeroFLQuire[P, S]().MulAdd(p, q).Posit(), "%#v * %#v", p, q)
		}
	}
}

func TestFLQuireExhaustive(t *testing.T) {
	t.Run("p8e1/20", func(t *testing.T) { checkFLQuire[P8E1, W20](t, allPosits[P8E1]()) })
	t.Run("p8e1/64", func(t *testing.T) { checkFLQuire[P8E1, W64](t, allPosits[P8E1]()) })
	t.Run("p6e1/20", func(t *testing.T) { checkFLQuire[P6E1, W20](t, allPosits[P6E1]()) })
}

func TestFLQuireRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	ps := make([]Posit[P16E1], 0, 300)
	for len(ps) < cap(ps) {
		if p := New[P16E1](rnd.Uint32()); !p.IsNaR() {
			ps = append(ps, p)
		}
	}
	checkFLQuire[P16E1, W32](t, ps)
}

func TestFLQuireRenormalize(t *testing.T) {
	a := assert.New(t)
	one := OneFLQuire[P8E1, W20]()

	two := one.Add(one)
	a.Equal(1, two.Scale())
	a.Equal(one.Bits(), two.Bits())
	a.Equal("2", two.Posit().String())

	// -2^(SIZE-2) still has the guard bit equal to the sign.
	m := two.Neg().Add(two.Neg())
	a.Equal(1, m.Scale())
	a.Equal("-4", m.Posit().String())

	x := FLQuireFrom[P8E1, W20](MustParse[P8E1]("1.5"))
	sq := x.Mul(x)
	a.Equal(1, sq.Scale())
	a.Equal("2.25", sq.Posit().String())
	a.Equal("-2.25", sq.Neg().Posit().String())

	a.True(x.Sub(x).IsZero())
	a.True(x.Div(x).IsZero())
	a.Equal(x, x.Mul(one))
	a.Equal(x, one.Mul(x))
}

func TestFLQuireDot(t *testing.T) {
	a := assert.New(t)
	xs := []string{"1.5", "2", "-0.5", "0.25"}
	ys := []string{"2", "0.25", "4", "3"}
	q := ZeroFLQuire[P8E1, W20]()
	for i := range xs {
		q = q.MulAdd(MustParse[P8E1](xs[i]), MustParse[P8E1](ys[i]))
	}
	a.Equal("2.25", q.Posit().String())
	a.Equal(q, q.MulAdd(NaR[P8E1](), One[P8E1]()))
}
