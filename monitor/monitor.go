// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package monitor evaluates watch expressions against a running CPU.
//
// A watch is a Starlark expression such as
//
//	pc == 0x3010 and r0 > 5
//	mem(0x4000) == ord('A')
//	n and ticks > 1000
//
// The registers r0-r7, pc and cond, the flags n, z and p, the tick counter
// ticks, the CPU defines (PC_START, MR_KBSR, ...) and the function mem(addr)
// are predeclared. mem() reads memory without touching the keyboard.
package monitor

import (
	"errors"
	"iter"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var ErrExpression = errors.New(f("watch expression must be a bool or int"))

// ErrWatch reports a watch expression that could not be parsed or evaluated.
type ErrWatch struct {
	Expr string
	Err  error
}

func (err *ErrWatch) Error() string {
	return f("watch '%v' %v", err.Expr, err.Err)
}

func (err *ErrWatch) Unwrap() error {
	return err.Err
}

// Watch is a compiled watch expression.
type Watch struct {
	Expr string

	expr syntax.Expr
}

var fileOptions = syntax.FileOptions{}

// Compile parses a watch expression.
func Compile(text string) (watch *Watch, err error) {
	expr, err := fileOptions.ParseExpr("watch", text, 0)
	if err != nil {
		err = &ErrWatch{Expr: text, Err: err}
		return
	}

	watch = &Watch{Expr: text, expr: expr}
	return
}

// Monitor checks a set of watches after each instruction.
type Monitor struct {
	Watches []*Watch

	defines starlark.StringDict
}

// Define adds predeclared integer constants.
func (mon *Monitor) Define(defines iter.Seq2[string, uint16]) {
	if mon.defines == nil {
		mon.defines = starlark.StringDict{}
	}
	for key, value := range defines {
		mon.defines[key] = starlark.MakeInt(int(value))
	}
}

// Add compiles and adds a watch expression.
func (mon *Monitor) Add(text string) (err error) {
	watch, err := Compile(text)
	if err != nil {
		return
	}

	mon.Watches = append(mon.Watches, watch)
	return
}

// environment builds the predeclared names for the current CPU state.
func (mon *Monitor) environment(c *cpu.Cpu) (env starlark.StringDict) {
	env = starlark.StringDict{}
	for key, value := range mon.defines {
		env[key] = value
	}

	for r := cpu.R0; r <= cpu.COND; r++ {
		env[r.String()] = starlark.MakeInt(int(c.Register[r]))
	}

	cond := c.Register.Cond()
	env["n"] = starlark.Bool(cond&cpu.FL_NEG != 0)
	env["z"] = starlark.Bool(cond&cpu.FL_ZRO != 0)
	env["p"] = starlark.Bool(cond&cpu.FL_POS != 0)
	env["ticks"] = starlark.MakeInt(c.Ticks)

	env["mem"] = starlark.NewBuiltin("mem", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var addr int
		err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &addr)
		if err != nil {
			return nil, err
		}
		return starlark.MakeInt(int(c.Memory.Peek(uint16(addr)))), nil
	})

	return
}

// Eval evaluates a single watch against the CPU state.
func (mon *Monitor) Eval(watch *Watch, c *cpu.Cpu) (hit bool, err error) {
	thread := &starlark.Thread{Name: "watch"}

	value, err := starlark.EvalExprOptions(&fileOptions, thread, watch.expr, mon.environment(c))
	if err != nil {
		err = &ErrWatch{Expr: watch.Expr, Err: err}
		return
	}

	switch value.(type) {
	case starlark.Bool, starlark.Int:
		hit = bool(value.Truth())
	default:
		err = &ErrWatch{Expr: watch.Expr, Err: ErrExpression}
	}

	return
}

// Check returns the first watch that holds for the CPU state, or nil.
func (mon *Monitor) Check(c *cpu.Cpu) (hit *Watch, err error) {
	for _, watch := range mon.Watches {
		var ok bool
		ok, err = mon.Eval(watch, c)
		if err != nil {
			return
		}
		if ok {
			hit = watch
			return
		}
	}

	return
}
