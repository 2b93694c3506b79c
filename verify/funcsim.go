package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/asciiascii/bank"
	"github.com/sarchlab/asciiascii/console"
	"github.com/sarchlab/asciiascii/core"
	"github.com/sarchlab/asciiascii/optimizer"
	"github.com/sarchlab/asciiascii/program"
)

// ErrInconclusive is returned by CheckEquivalence when the program does not
// finish within the step budget.
var ErrInconclusive = errors.New("inconclusive")

// FunctionalSimulator runs a program with scripted input on a private engine
// and records what it did.
type FunctionalSimulator struct {
	code  program.Program
	input string

	output string
	banks  map[int32]bank.Bank
	steps  uint64
}

// NewFunctionalSimulator creates a simulator for p that reads from input.
func NewFunctionalSimulator(p program.Program, input string) *FunctionalSimulator {
	return &FunctionalSimulator{
		code:  p,
		input: input,
	}
}

// Run executes the program for up to maxSteps instructions. Returns the
// error the program stopped with.
func (fs *FunctionalSimulator) Run(maxSteps uint64) error {
	if fs.code == nil {
		return fmt.Errorf("FunctionalSimulator has no program")
	}

	out := new(bytes.Buffer)
	con := console.NewStream(strings.NewReader(fs.input), out)
	engine := sim.NewSerialEngine()

	c := core.NewBuilder().
		WithEngine(engine).
		WithConsole(con).
		WithStepLimit(maxSteps).
		Build("FuncSim.Core")

	c.MapProgram(fs.code)
	c.TickNow()

	err := engine.Run()
	if flushErr := con.Flush(); err == nil {
		err = flushErr
	}
	if err == nil {
		err = c.Err()
	}

	fs.output = out.String()
	fs.steps = c.Steps()
	fs.banks = make(map[int32]bank.Bank)
	for _, id := range c.Banks().IDs() {
		b, _ := c.Banks().Lookup(id)
		fs.banks[id] = *b
	}

	slog.Debug("Functional simulation finished",
		"steps", fs.steps, "banks", len(fs.banks), "err", err)

	return err
}

// Output returns everything the program wrote.
func (fs *FunctionalSimulator) Output() string {
	return fs.output
}

// Steps returns the number of executed instructions.
func (fs *FunctionalSimulator) Steps() uint64 {
	return fs.steps
}

// Bank returns a copy of the bank with the given id as the run left it.
func (fs *FunctionalSimulator) Bank(id int32) (bank.Bank, bool) {
	b, ok := fs.banks[id]
	return b, ok
}

// CheckEquivalence runs raw with and without the optimizer and reports the
// first difference in errors, output or banks.
func CheckEquivalence(raw program.Program, input string, maxSteps uint64) error {
	plain := NewFunctionalSimulator(raw, input)
	plainErr := plain.Run(maxSteps)

	if errors.Is(plainErr, core.ErrStepLimit) {
		return fmt.Errorf("%w: no result within %d steps", ErrInconclusive, maxSteps)
	}

	opt := NewFunctionalSimulator(optimizer.Optimize(raw), input)
	optErr := opt.Run(maxSteps)

	if errorKind(plainErr) != errorKind(optErr) {
		return fmt.Errorf("optimized program stops with %q, original with %q",
			errorKind(optErr), errorKind(plainErr))
	}

	if plain.output != opt.output {
		return fmt.Errorf("output differs: optimized %q, original %q", opt.output, plain.output)
	}

	if len(plain.banks) != len(opt.banks) {
		return fmt.Errorf("optimized program creates %d banks, original %d",
			len(opt.banks), len(plain.banks))
	}

	for id, want := range plain.banks {
		got, ok := opt.banks[id]
		if !ok {
			return fmt.Errorf("optimized program never creates bank %d", id)
		}

		for v := range want {
			if got[v] != want[v] {
				return fmt.Errorf("bank %d cell %s: optimized %d, original %d",
					id, program.VarName(byte(v)), got[v], want[v])
			}
		}
	}

	return nil
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrMissingTerminator):
		return core.ErrMissingTerminator.Error()
	case errors.Is(err, core.ErrStepLimit):
		return core.ErrStepLimit.Error()
	case errors.Is(err, bank.ErrOutOfMemory):
		return bank.ErrOutOfMemory.Error()
	case errors.Is(err, console.ErrInvalidNumericInput):
		return console.ErrInvalidNumericInput.Error()
	case errors.Is(err, io.EOF):
		return io.EOF.Error()
	default:
		return err.Error()
	}
}
