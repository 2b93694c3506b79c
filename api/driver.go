// Package api defines the driver that turns source text into a running
// program.
package api

import (
	"errors"
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/asciiascii/bank"
	"github.com/sarchlab/asciiascii/console"
	"github.com/sarchlab/asciiascii/core"
	"github.com/sarchlab/asciiascii/lexer"
	"github.com/sarchlab/asciiascii/optimizer"
	"github.com/sarchlab/asciiascii/program"
)

// ErrNoProgram is returned by Run when nothing was loaded.
var ErrNoProgram = errors.New("no program loaded")

// Driver provides the interface to load and run programs.
type Driver interface {
	// Load accepts source text or a program image. Source is lexed and, if
	// enabled, optimized.
	Load(src []byte) error

	// LoadProgram sets an already built program. It is optimized if enabled.
	LoadProgram(p program.Program)

	// Original returns the program before optimization.
	Original() program.Program

	// Program returns the program that Run executes.
	Program() program.Program

	// Image serializes the program that Run executes.
	Image() ([]byte, error)

	// Run executes the loaded program until it ends or fails.
	Run() error

	// Banks returns the banks left by the last run.
	Banks() *bank.Table

	// PrintState dumps the execution state of the last run.
	PrintState(w io.Writer)
}

type driverImpl struct {
	engine   sim.Engine
	core     *core.Core
	console  console.Console
	lexer    *lexer.Lexer
	optimize bool

	original program.Program
	code     program.Program
}

func (d *driverImpl) Load(src []byte) error {
	if program.IsImage(src) {
		p, optimized, err := program.UnmarshalImage(src)
		if err != nil {
			return err
		}

		slog.Info("Loaded program image", "instructions", len(p), "optimized", optimized)

		if optimized {
			d.original, d.code = p, p
			return nil
		}

		d.LoadProgram(p)

		return nil
	}

	p, err := d.lexer.Lex(src)
	if err != nil {
		return err
	}

	slog.Info("Lexed source", "bytes", len(src), "instructions", len(p))

	d.LoadProgram(p)

	return nil
}

func (d *driverImpl) LoadProgram(p program.Program) {
	d.original = p
	d.code = p

	if d.optimize {
		d.code = optimizer.Optimize(p)
	}
}

func (d *driverImpl) Original() program.Program {
	return d.original
}

func (d *driverImpl) Program() program.Program {
	return d.code
}

func (d *driverImpl) Image() ([]byte, error) {
	if d.code == nil {
		return nil, ErrNoProgram
	}

	return program.MarshalImage(d.code, d.optimize)
}

func (d *driverImpl) Run() error {
	if d.code == nil {
		return ErrNoProgram
	}

	d.core.MapProgram(d.code)
	d.core.TickNow()

	err := d.engine.Run()
	flushErr := d.console.Flush()

	if err != nil {
		return err
	}

	if err := d.core.Err(); err != nil {
		return err
	}

	if flushErr != nil {
		return flushErr
	}

	slog.Info("Finished",
		"steps", d.core.Steps(),
		"banks", d.core.Banks().Len(),
		"time", float64(d.engine.CurrentTime()))

	return nil
}

func (d *driverImpl) Banks() *bank.Table {
	return d.core.Banks()
}

func (d *driverImpl) PrintState(w io.Writer) {
	d.core.PrintState(w)
}
