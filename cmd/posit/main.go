// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Command posit converts numbers to posits, evaluates posit expressions
// and compares dot product accumulators.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
)

type cli struct {
	N         uint8  `help:"Posit width in bits." default:"8" env:"POSIT_N"`
	ES        uint8  `name:"es" help:"Exponent field width in bits." default:"1" env:"POSIT_ES"`
	LogLevel  string `help:"Log level (${enum})." enum:"debug,info,warn,error" default:"warn" env:"POSIT_LOG_LEVEL"`
	LogFormat string `help:"Log format (${enum})." enum:"text,json" default:"text" env:"POSIT_LOG_FORMAT"`

	Encode encodeCmd `cmd:"" help:"Round decimal numbers to posits. Use -- before negative numbers."`
	Decode decodeCmd `cmd:"" help:"Print the value and fields of bit patterns."`
	Eval   evalCmd   `cmd:"" help:"Evaluate an expression, rounding after every operation."`
	Table  tableCmd  `cmd:"" help:"Print the full operation table of a small format."`
	Dot    dotCmd    `cmd:"" help:"Compute a dot product in the chosen accumulator."`
}

type env struct {
	calc calculator
	log  *slog.Logger
	out  io.Writer
}

func (c *cli) env(out, logOut io.Writer) (*env, error) {
	calc, err := lookup(c.N, c.ES)
	if err != nil {
		return nil, err
	}
	log := newLogger(c.LogLevel, c.LogFormat, logOut).With("format", calc.Format().String())
	return &env{calc: calc, log: log, out: out}, nil
}

func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

type encodeCmd struct {
	Values []string `arg:"" help:"Decimal numbers or NaR."`
}

func (c *encodeCmd) Run(e *env) error {
	for _, v := range c.Values {
		bits, err := e.calc.Parse(v)
		if err != nil {
			return fmt.Errorf("encode %q: %w", v, err)
		}
		e.log.Debug("encoded", "input", v, "bits", bits)
		fmt.Fprintln(e.out, e.calc.Describe(bits))
	}
	return nil
}

type decodeCmd struct {
	Patterns []string `arg:"" help:"Bit patterns as 0b..., 0x... or decimal integers."`
}

func (c *decodeCmd) Run(e *env) error {
	for _, s := range c.Patterns {
		w, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return fmt.Errorf("decode %q: %w", s, err)
		}
		bits, err := e.calc.New(uint32(w))
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out, e.calc.Describe(bits))
	}
	return nil
}

type evalCmd struct {
	Expr []string `arg:"" help:"Expression, like '1.5 * (2 - 0.25)'."`
}

func (c *evalCmd) Run(e *env) error {
	bits, err := evaluate(strings.Join(c.Expr, " "), e.calc, e.log)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, e.calc.Describe(bits))
	return nil
}

type tableCmd struct {
	Op string `help:"Operation (${enum})." enum:"add,sub,mul,div" default:"add"`
}

var opSymbols = map[string]string{"add": "+", "sub": "-", "mul": "*", "div": "/"}

func (c *tableCmd) Run(e *env) error {
	n := e.calc.Format().N()
	if n > 10 {
		return fmt.Errorf("table is limited to posits of up to 10 bits, got %d", n)
	}
	count := uint32(1) << n
	e.log.Info("printing table", "op", c.Op, "rows", count*count)
	for a := uint32(0); a < count; a++ {
		for b := uint32(0); b < count; b++ {
			r, err := e.calc.Apply(c.Op, a, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s %s %s = %s\n", e.calc.String(a), opSymbols[c.Op], e.calc.String(b), e.calc.String(r))
		}
	}
	return nil
}

type dotCmd struct {
	Acc  string `help:"Accumulator (${enum})." enum:"posit,quire,flquire" default:"quire"`
	Size uint   `help:"Significant bits of the flquire register: 20, 32 or 64." default:"20" env:"POSIT_FLQUIRE_SIZE"`
	X    string `arg:"" help:"First vector, comma separated."`
	Y    string `arg:"" help:"Second vector, comma separated."`
}

func (c *dotCmd) Run(e *env) error {
	xs, err := parseVector(e.calc, c.X)
	if err != nil {
		return err
	}
	ys, err := parseVector(e.calc, c.Y)
	if err != nil {
		return err
	}
	bits, err := e.calc.Dot(c.Acc, c.Size, xs, ys)
	if err != nil {
		return err
	}
	e.log.Debug("dot product", "acc", c.Acc, "len", len(xs))
	fmt.Fprintln(e.out, e.calc.String(bits))
	return nil
}

func parseVector(c calculator, s string) ([]uint32, error) {
	parts := strings.Split(s, ",")
	res := make([]uint32, 0, len(parts))
	for _, p := range parts {
		bits, err := c.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("vector element %q: %w", p, err)
		}
		res = append(res, bits)
	}
	return res, nil
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("posit"),
		kong.Description("Posit arithmetic calculator."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	e, err := c.env(os.Stdout, os.Stderr)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(e))
}
