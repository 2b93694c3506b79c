// Package verify provides checking tools for programs.
//
// It has two complementary stages:
//
// 1. Static Lint (lint.go): checks the instruction stream without running it
//   - STRUCT: unknown opcodes, missing or misplaced End
//   - SCAN: brackets whose jump targets do not exist, which fail at run time
//     with a missing terminator error
//   - NESTING: loops that reuse a variable while a loop on it may still be
//     active, or that may be left without finishing
//
// 2. Functional Simulator (funcsim.go): runs a program on its own engine with
//   scripted input and records output and banks. CheckEquivalence uses it to
//   run a program with and without the optimizer and compare the results.
//
// # Loop status
//
// The core keeps one loop record per variable, not a stack. A loop that
// starts on a variable whose loop is still active keeps the old entry point.
// Such programs run, but rarely the way they look. The NESTING checks point
// them out instead of rejecting them.
package verify

import (
	"fmt"

	"github.com/sarchlab/asciiascii/program"
)

type IssueType string

const (
	IssueStruct  IssueType = "STRUCT"  // Malformed stream
	IssueScan    IssueType = "SCAN"    // Jump target missing
	IssueNesting IssueType = "NESTING" // Loop state may be shared or abandoned
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT, SCAN or NESTING
	Pos     int                    // Instruction index or -1
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

// Location formats the position of the issue.
func (i Issue) Location(p program.Program) string {
	if i.Pos < 0 || i.Pos >= len(p) {
		return "-"
	}

	return fmt.Sprintf("%s @%d", p[i.Pos], i.Pos)
}
