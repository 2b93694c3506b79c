package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/asciiascii/bank"
	"github.com/sarchlab/asciiascii/console"
	"github.com/sarchlab/asciiascii/program"
)

// ErrMissingTerminator is returned when a jump cannot find its target.
var ErrMissingTerminator = errors.New("missing terminator")

type instEmulator struct {
	console       console.Console
	requireNumber bool
}

// RunInst executes the instruction at state.IP.
func (i instEmulator) RunInst(state *coreState) error {
	if state.IP < 0 || state.IP >= len(state.Code) {
		return fmt.Errorf("%w: ran past the end of the program at %d",
			ErrMissingTerminator, state.IP)
	}

	pc := state.IP
	inst := state.Code[pc]
	state.IP++

	switch inst.Op {
	case program.Add:
		i.runAdd(inst, state)
	case program.BankSet:
		return i.runBankSet(inst, state)
	case program.BankSwap:
		i.runBankSwap(state)
	case program.BankBoth:
		return i.runBankBoth(inst, state)
	case program.Invert:
		i.runInvert(inst, state)
	case program.LoopBegin:
		return i.runLoopBegin(inst, pc, state)
	case program.LoopEnd:
		return i.runLoopEnd(inst, pc, state)
	case program.IfNot:
		return i.runIfNot(inst, pc, state)
	case program.Else, program.ElseEnd:
	case program.InputChar:
		return i.runInputChar(inst, state)
	case program.InputNumber:
		return i.runInputNumber(inst, state)
	case program.OutputChar:
		return i.console.WriteChar(*i.cell(state, state.Source, inst.A))
	case program.OutputNumber:
		return i.console.WriteNumber(*i.cell(state, state.Source, inst.A))
	case program.End:
		state.IP = pc
		state.Halted = true
	default:
		return fmt.Errorf("unknown instruction %s at %d", inst, pc)
	}

	return nil
}

// cell resolves variable v. A variable with an active loop always refers to
// the cell of the bank that was the source when the loop started.
func (i instEmulator) cell(state *coreState, side *bank.Bank, v byte) *int32 {
	if l := &state.Loops[v]; l.Active {
		return &l.Bank[v]
	}

	return &side[v]
}

func (i instEmulator) runAdd(inst program.Instruction, state *coreState) {
	a := i.cell(state, state.Source, inst.A)
	b := *i.cell(state, state.Other, inst.B)

	if b == 0 {
		*a = 0
		return
	}

	*a += b
}

func (i instEmulator) runBankSet(inst program.Instruction, state *coreState) error {
	id := *i.cell(state, state.Source, inst.A)

	b, err := state.Banks.GetOrCreate(id)
	if err != nil {
		return err
	}

	state.Source, state.SourceID = b, id

	return nil
}

func (i instEmulator) runBankSwap(state *coreState) {
	state.Source, state.Other = state.Other, state.Source
	state.SourceID, state.OtherID = state.OtherID, state.SourceID
}

// runBankBoth does what BankSet, BankSwap, BankSet on the same variable do.
// The source ends up on the bank named by the other bank's cell and the other
// side on the bank named by the source bank's cell. When both sides show the
// same bank, both end up on the same bank.
func (i instEmulator) runBankBoth(inst program.Instruction, state *coreState) error {
	srcID := *i.cell(state, state.Source, inst.A)
	otherID := *i.cell(state, state.Other, inst.A)

	src, err := state.Banks.GetOrCreate(srcID)
	if err != nil {
		return err
	}

	other, err := state.Banks.GetOrCreate(otherID)
	if err != nil {
		return err
	}

	state.Source, state.SourceID = other, otherID
	state.Other, state.OtherID = src, srcID

	return nil
}

func (i instEmulator) runInvert(inst program.Instruction, state *coreState) {
	c := i.cell(state, state.Source, inst.A)
	*c = -*c
}

func (i instEmulator) runLoopBegin(
	inst program.Instruction,
	pc int,
	state *coreState,
) error {
	v := inst.A
	c := i.cell(state, state.Source, v)
	l := &state.Loops[v]

	if *c != 0 {
		if !l.Active {
			*l = loopStatus{
				Active:  true,
				Entry:   pc,
				Initial: *c,
				Bank:    state.Source,
			}
		}

		if *c > 0 {
			*c--
		} else {
			*c++
		}

		return nil
	}

	if l.Active {
		*c = -l.Initial
		*l = loopStatus{}

		return i.scanForward(state, pc, program.ElseEnd, v)
	}

	return i.scanForward(state, pc, program.Else, v)
}

func (i instEmulator) runLoopEnd(
	inst program.Instruction,
	pc int,
	state *coreState,
) error {
	if l := &state.Loops[inst.A]; l.Active {
		state.IP = l.Entry
		return nil
	}

	for k := pc - 1; k >= 0; k-- {
		if state.Code[k].Op == program.LoopBegin && state.Code[k].A == inst.A {
			state.IP = k
			return nil
		}
	}

	return fmt.Errorf("%w: no %s before %d",
		ErrMissingTerminator, program.Inst(program.LoopBegin, inst.A), pc)
}

// runIfNot stands in for a loop with an empty body. A nonzero value ends
// negated and skips the else branch; a zero value runs the else branch.
func (i instEmulator) runIfNot(
	inst program.Instruction,
	pc int,
	state *coreState,
) error {
	c := i.cell(state, state.Source, inst.A)
	value := *c
	*c = -value

	if value != 0 {
		return i.scanForward(state, pc, program.ElseEnd, inst.A)
	}

	return nil
}

// scanForward continues execution right after the next op(v) following pc.
func (i instEmulator) scanForward(
	state *coreState,
	pc int,
	op program.Opcode,
	v byte,
) error {
	for k := pc + 1; k < len(state.Code); k++ {
		if state.Code[k].Op == op && state.Code[k].A == v {
			state.IP = k + 1
			return nil
		}
	}

	return fmt.Errorf("%w: no %s after %d",
		ErrMissingTerminator, program.Inst(op, v), pc)
}

func (i instEmulator) runInputChar(inst program.Instruction, state *coreState) error {
	c, err := i.console.ReadChar()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("read char: %w", err)
		}

		slog.Warn("End of input, storing 0", "var", program.VarName(inst.A))
		c = 0
	}

	*i.cell(state, state.Source, inst.A) = int32(c)

	return nil
}

func (i instEmulator) runInputNumber(inst program.Instruction, state *coreState) error {
	n, err := i.console.ReadNumber(i.requireNumber)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("read number: %w", err)
		}

		slog.Warn("End of input, storing 0", "var", program.VarName(inst.A))
		n = 0
	}

	*i.cell(state, state.Source, inst.A) = n

	return nil
}
