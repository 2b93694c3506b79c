// Package optimizer collapses common bracket and bank idioms into single
// instructions.
package optimizer

import (
	"log/slog"

	"github.com/sarchlab/asciiascii/program"
)

type rule struct {
	name    string
	pattern []program.Opcode
	result  program.Opcode
}

// Rules are tried in order at every position, longest first.
var rules = []rule{
	{
		name:    "invert",
		pattern: []program.Opcode{program.LoopBegin, program.LoopEnd, program.Else, program.ElseEnd},
		result:  program.Invert,
	},
	{
		name:    "bank-both",
		pattern: []program.Opcode{program.BankSet, program.BankSwap, program.BankSet},
		result:  program.BankBoth,
	},
	{
		name:    "if-not",
		pattern: []program.Opcode{program.LoopBegin, program.LoopEnd, program.Else},
		result:  program.IfNot,
	},
}

// Stats counts how often each rewrite was applied.
type Stats map[string]int

// Total returns the number of rewrites.
func (s Stats) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}

	return n
}

// Optimize rewrites p in a single greedy left-to-right pass and returns the
// new program. p is not modified.
func Optimize(p program.Program) program.Program {
	out, _ := OptimizeWithStats(p)
	return out
}

// OptimizeWithStats is Optimize that also reports what was rewritten.
func OptimizeWithStats(p program.Program) (program.Program, Stats) {
	out := make(program.Program, 0, len(p))
	stats := make(Stats)

	for i := 0; i < len(p); {
		r, ok := matchAt(p, i)
		if !ok {
			out = append(out, p[i])
			i++

			continue
		}

		out = append(out, program.Inst(r.result, p[i].A))
		stats[r.name]++
		i += len(r.pattern)
	}

	slog.Debug("Optimized program",
		"before", len(p),
		"after", len(out),
		"rewrites", stats.Total())

	return out, stats
}

func matchAt(p program.Program, i int) (rule, bool) {
	for _, r := range rules {
		if matches(p, i, r.pattern) {
			return r, true
		}
	}

	return rule{}, false
}

// matches checks opcodes and requires every instruction that carries a
// variable to carry the same one.
func matches(p program.Program, i int, pattern []program.Opcode) bool {
	if i+len(pattern) > len(p) {
		return false
	}

	v := p[i].A

	for k, op := range pattern {
		inst := p[i+k]
		if inst.Op != op {
			return false
		}

		if op.Operands() == 1 && inst.A != v {
			return false
		}
	}

	return true
}
