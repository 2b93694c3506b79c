// Package lexer turns source text into an instruction stream.
//
// Source is read two bytes at a time. A pair of backticks switches banks, a
// backtick followed by a byte reads input, a byte followed by a backtick writes
// output, two identical bytes form the brackets of a loop and everything else
// adds one variable to another.
package lexer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sarchlab/asciiascii/program"
)

// ErrUnmatchedBracket is returned when the source ends inside a bracket
// construct.
var ErrUnmatchedBracket = errors.New("unmatched bracket")

// Lexer converts source text into a program.
type Lexer struct {
	logger *slog.Logger
}

// New creates a lexer that reports notes to the given logger. A nil logger
// means the default logger.
func New(logger *slog.Logger) *Lexer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Lexer{logger: logger}
}

// Lex converts src with a lexer that logs to the default logger.
func Lex(src []byte) (program.Program, error) {
	return New(nil).Lex(src)
}

// Lex converts src into a program terminated by End.
func (l *Lexer) Lex(src []byte) (program.Program, error) {
	var (
		brackets [256]uint8
		lastVar  byte
	)

	code := make(program.Program, 0, len(src)/2+1)

	n := len(src) &^ 1
	if n != len(src) {
		l.logger.Warn("Source does not end on a pair of characters, ignoring the last one",
			"byte", program.VarName(src[n]))
	}

	for i := 0; i < n; i += 2 {
		a, b := src[i], src[i+1]
		pos := i

		var inst program.Instruction

		switch {
		case a == program.Sentinel && b == program.Sentinel:
			inst = program.Inst(program.BankSet, lastVar)
			if len(code) > 0 && code[len(code)-1].Op == program.BankSet {
				inst = program.Instruction{Op: program.BankSwap}
			}
		case a == program.Sentinel:
			inst = program.Inst(program.InputChar, b)
			if isDigit(b) {
				inst.Op = program.InputNumber
			}
			lastVar = b
		case b == program.Sentinel:
			inst = program.Inst(program.OutputChar, a)
			if isDigit(a) {
				inst.Op = program.OutputNumber
			}
			lastVar = a
		case a == b:
			brackets[a]++
			switch brackets[a] {
			case 1:
				inst = program.Inst(program.LoopBegin, a)
			case 2:
				inst = program.Inst(program.LoopEnd, a)
				// The closing pair also opens the else branch.
				i -= 2
			case 3:
				inst = program.Inst(program.Else, a)
			default:
				inst = program.Inst(program.ElseEnd, a)
				brackets[a] = 0
			}
			lastVar = a
		default:
			inst = program.AddInst(a, b)
			lastVar = a
		}

		l.logger.Debug("Token", "pos", pos, "inst", inst.String())

		code = append(code, inst)
	}

	code = append(code, program.Instruction{Op: program.End})

	if open := openBrackets(&brackets); len(open) > 0 {
		l.logger.Warn("There is a missing loop end, else or else end", "open", open)
		return nil, fmt.Errorf("%w: open brackets on %s", ErrUnmatchedBracket, open)
	}

	return code, nil
}

func openBrackets(brackets *[256]uint8) string {
	var names []string

	for v, c := range brackets {
		if c != 0 {
			names = append(names, program.VarName(byte(v)))
		}
	}

	return strings.Join(names, ", ")
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
