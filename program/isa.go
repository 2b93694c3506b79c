package program

import "fmt"

// Opcode identifies one instruction of the interpreter.
type Opcode uint8

// The instruction set. IfNot, Invert and BankBoth are only produced by the
// optimizer.
const (
	Add Opcode = iota
	BankSet
	BankSwap
	BankBoth
	Invert
	LoopBegin
	LoopEnd
	IfNot
	Else
	ElseEnd
	InputChar
	InputNumber
	OutputChar
	OutputNumber
	End

	numOpcodes
)

// ISA describes the instruction set: mnemonic and operand count per opcode.
type ISA struct {
	name    string
	entries [numOpcodes]isaEntry
	byName  map[string]Opcode
}

type isaEntry struct {
	name     string
	operands int
}

// NewISA creates an empty instruction set.
func NewISA(name string) *ISA {
	return &ISA{
		name:   name,
		byName: make(map[string]Opcode),
	}
}

func (isa *ISA) register(op Opcode, name string, operands int) {
	isa.entries[op] = isaEntry{name: name, operands: operands}
	isa.byName[name] = op
}

// Name returns the name of the instruction set.
func (isa *ISA) Name() string {
	return isa.name
}

// Lookup finds the opcode that has the given mnemonic.
func (isa *ISA) Lookup(name string) (Opcode, bool) {
	op, ok := isa.byName[name]
	return op, ok
}

var defaultISA = newDefaultISA()

func newDefaultISA() *ISA {
	isa := NewISA("asciiascii")

	isa.register(Add, "ADD", 2)
	isa.register(BankSet, "BANK_SET", 1)
	isa.register(BankSwap, "BANK_SWAP", 0)
	isa.register(BankBoth, "BANK_BOTH", 1)
	isa.register(Invert, "INVERT", 1)
	isa.register(LoopBegin, "LOOP", 1)
	isa.register(LoopEnd, "LOOP_END", 1)
	isa.register(IfNot, "IF_NOT", 1)
	isa.register(Else, "ELSE", 1)
	isa.register(ElseEnd, "ELSE_END", 1)
	isa.register(InputChar, "IN_CHAR", 1)
	isa.register(InputNumber, "IN_NUMBER", 1)
	isa.register(OutputChar, "OUT_CHAR", 1)
	isa.register(OutputNumber, "OUT_NUMBER", 1)
	isa.register(End, "END", 0)

	return isa
}

// DefaultISA returns the instruction set used by the lexer and the core.
func DefaultISA() *ISA {
	return defaultISA
}

// Valid reports whether op is a member of the instruction set.
func (op Opcode) Valid() bool {
	return op < numOpcodes
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Opcode(%d)", uint8(op))
	}

	return defaultISA.entries[op].name
}

// Operands returns how many byte operands the opcode carries.
func (op Opcode) Operands() int {
	if !op.Valid() {
		return 0
	}

	return defaultISA.entries[op].operands
}
