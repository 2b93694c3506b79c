package verify

import (
	"fmt"

	"github.com/sarchlab/asciiascii/program"
)

// RunLint performs static checks on a program and returns every issue found.
func RunLint(p program.Program) []Issue {
	var issues []Issue

	issues = append(issues, lintStruct(p)...)
	issues = append(issues, lintScan(p)...)
	issues = append(issues, lintNesting(p)...)

	return issues
}

func lintStruct(p program.Program) []Issue {
	var issues []Issue

	if len(p) == 0 {
		return []Issue{{
			Type:    IssueStruct,
			Pos:     -1,
			Message: "program is empty",
		}}
	}

	for k, inst := range p {
		if !inst.Op.Valid() {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Pos:     k,
				Message: fmt.Sprintf("unknown opcode %d", uint8(inst.Op)),
			})
		}

		if inst.Op == program.End && k != len(p)-1 {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Pos:     k,
				Message: fmt.Sprintf("End before the last instruction, %d instructions are unreachable", len(p)-1-k),
			})
		}
	}

	if p[len(p)-1].Op != program.End {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Pos:     len(p) - 1,
			Message: "program does not end with End",
		})
	}

	return issues
}

// lintScan checks that every jump the core may take has a target.
func lintScan(p program.Program) []Issue {
	var issues []Issue

	missing := func(k int, op program.Opcode, forward bool) {
		dir := "after"
		if !forward {
			dir = "before"
		}

		issues = append(issues, Issue{
			Type:    IssueScan,
			Pos:     k,
			Message: fmt.Sprintf("no %s %s it", program.Inst(op, p[k].A), dir),
			Details: map[string]interface{}{
				"var":    program.VarName(p[k].A),
				"target": op.String(),
			},
		})
	}

	for k, inst := range p {
		switch inst.Op {
		case program.LoopBegin:
			if findForward(p, k, program.Else, inst.A) < 0 {
				missing(k, program.Else, true)
			}
			if findForward(p, k, program.ElseEnd, inst.A) < 0 {
				missing(k, program.ElseEnd, true)
			}
		case program.IfNot:
			if findForward(p, k, program.ElseEnd, inst.A) < 0 {
				missing(k, program.ElseEnd, true)
			}
		case program.LoopEnd:
			if findBackward(p, k, program.LoopBegin, inst.A) < 0 {
				missing(k, program.LoopBegin, false)
			}
		}
	}

	return issues
}

// lintNesting looks at each loop body, from LoopBegin(v) to the next
// LoopEnd(v).
func lintNesting(p program.Program) []Issue {
	var issues []Issue

	for k, inst := range p {
		if inst.Op != program.LoopBegin {
			continue
		}

		v := inst.A
		end := findForward(p, k, program.LoopEnd, v)
		if end < 0 {
			continue
		}

		for j := k + 1; j < end; j++ {
			inner := p[j]
			if inner.Op != program.LoopBegin {
				continue
			}

			if inner.A == v {
				issues = append(issues, Issue{
					Type: IssueNesting,
					Pos:  j,
					Message: fmt.Sprintf("loop on %s starts inside the loop on the same variable at %d",
						program.VarName(v), k),
					Details: map[string]interface{}{"outer": k, "inner": j},
				})

				continue
			}

			exit := findForward(p, j, program.ElseEnd, inner.A)
			if exit > end {
				issues = append(issues, Issue{
					Type: IssueNesting,
					Pos:  j,
					Message: fmt.Sprintf("loop on %s can leave the loop on %s at %d while it is active",
						program.VarName(inner.A), program.VarName(v), k),
					Details: map[string]interface{}{"outer": k, "inner": j, "exit": exit},
				})
			}
		}
	}

	return issues
}

func findForward(p program.Program, from int, op program.Opcode, v byte) int {
	for k := from + 1; k < len(p); k++ {
		if p[k].Op == op && p[k].A == v {
			return k
		}
	}

	return -1
}

func findBackward(p program.Program, from int, op program.Opcode, v byte) int {
	for k := from - 1; k >= 0; k-- {
		if p[k].Op == op && p[k].A == v {
			return k
		}
	}

	return -1
}
