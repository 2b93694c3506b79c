// Package program defines the instruction stream that the lexer produces, the
// optimizer rewrites and the core executes.
package program

import (
	"fmt"
	"strings"
)

// Sentinel is the byte that marks input and output pairs in source text.
const Sentinel byte = '`'

// Instruction is one opcode with its operands. A is the variable the
// instruction acts on. B is only used by Add, as the variable that is read
// from the other bank.
type Instruction struct {
	Op Opcode
	A  byte
	B  byte
}

// Inst creates an instruction that carries a single variable operand.
func Inst(op Opcode, v byte) Instruction {
	return Instruction{Op: op, A: v}
}

// AddInst creates an Add(a, b) instruction.
func AddInst(a, b byte) Instruction {
	return Instruction{Op: Add, A: a, B: b}
}

func (i Instruction) String() string {
	switch i.Op.Operands() {
	case 0:
		return i.Op.String()
	case 1:
		return fmt.Sprintf("%s %s", i.Op, VarName(i.A))
	default:
		return fmt.Sprintf("%s %s %s", i.Op, VarName(i.A), VarName(i.B))
	}
}

// VarName renders a variable identifier, quoting printable bytes.
func VarName(v byte) string {
	if v >= 0x20 && v < 0x7f {
		return fmt.Sprintf("'%c'", v)
	}

	return fmt.Sprintf("0x%02x", v)
}

// Program is an index-addressable instruction stream. Control transfer in the
// core jumps by absolute position.
type Program []Instruction

// Count returns how many instructions have the given opcode.
func (p Program) Count(op Opcode) int {
	n := 0

	for _, inst := range p {
		if inst.Op == op {
			n++
		}
	}

	return n
}

// Validate checks that every opcode is known and that the stream is
// terminated with End.
func (p Program) Validate() error {
	for i, inst := range p {
		if !inst.Op.Valid() {
			return fmt.Errorf("instruction %d: unknown opcode %d", i, uint8(inst.Op))
		}
	}

	if len(p) == 0 || p[len(p)-1].Op != End {
		return fmt.Errorf("program is not terminated with %s", End)
	}

	return nil
}

func (p Program) String() string {
	var sb strings.Builder

	for i, inst := range p {
		fmt.Fprintf(&sb, "%4d  %s\n", i, inst)
	}

	return sb.String()
}
