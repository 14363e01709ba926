// Copyright 2020 Aleksandr Demakin. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// expression is the grammar of the eval command:
// sums of products of optionally negated numbers, NaR and parenthesized expressions.
type expression struct {
	Left  *term     `parser:"@@"`
	Right []*opTerm `parser:"@@*"`
}

type opTerm struct {
	Op   string `parser:"@(\"+\" | \"-\")"`
	Term *term  `parser:"@@"`
}

type term struct {
	Left  *factor     `parser:"@@"`
	Right []*opFactor `parser:"@@*"`
}

type opFactor struct {
	Op     string  `parser:"@(\"*\" | \"/\")"`
	Factor *factor `parser:"@@"`
}

type factor struct {
	Neg  bool  `parser:"@\"-\"?"`
	Atom *atom `parser:"@@"`
}

type atom struct {
	Number *string     `parser:"  @Number"`
	Ident  *string     `parser:"| @Ident"`
	Sub    *expression `parser:"| \"(\" @@ \")\""`
}

var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Punct", Pattern: `[-+*/()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var exprParser = participle.MustBuild[expression](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
)

// evaluate parses s and evaluates it in posit arithmetic, rounding after every operation.
func evaluate(s string, c calculator, log *slog.Logger) (uint32, error) {
	parsed, err := exprParser.ParseString("", s)
	if err != nil {
		return 0, fmt.Errorf("invalid expression %q: %w", s, err)
	}
	return parsed.eval(c, log)
}

func (x *expression) eval(c calculator, log *slog.Logger) (uint32, error) {
	acc, err := x.Left.eval(c, log)
	if err != nil {
		return 0, err
	}
	for _, r := range x.Right {
		v, err := r.Term.eval(c, log)
		if err != nil {
			return 0, err
		}
		if acc, err = c.Apply(r.Op, acc, v); err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func (t *term) eval(c calculator, log *slog.Logger) (uint32, error) {
	acc, err := t.Left.eval(c, log)
	if err != nil {
		return 0, err
	}
	for _, r := range t.Right {
		v, err := r.Factor.eval(c, log)
		if err != nil {
			return 0, err
		}
		if r.Op == "/" {
			log.Warn("division is not implemented, the quotient is zero", "dividend", c.String(acc), "divisor", c.String(v))
		}
		res, err := c.Apply(r.Op, acc, v)
		if err != nil {
			return 0, err
		}
		log.Debug("step", "a", c.String(acc), "op", r.Op, "b", c.String(v), "result", c.String(res))
		acc = res
	}
	return acc, nil
}

func (f *factor) eval(c calculator, log *slog.Logger) (uint32, error) {
	v, err := f.Atom.eval(c, log)
	if err != nil {
		return 0, err
	}
	if f.Neg {
		v = c.Neg(v)
	}
	return v, nil
}

func (a *atom) eval(c calculator, log *slog.Logger) (uint32, error) {
	switch {
	case a.Number != nil:
		return c.Parse(*a.Number)
	case a.Ident != nil:
		if strings.EqualFold(*a.Ident, "nar") {
			return c.Parse("NaR")
		}
		return 0, fmt.Errorf("unknown identifier %q", *a.Ident)
	default:
		return a.Sub.eval(c, log)
	}
}
