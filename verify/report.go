package verify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/asciiascii/optimizer"
	"github.com/sarchlab/asciiascii/program"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Program       program.Program
	Optimized     program.Program
	Rewrites      optimizer.Stats
	LintIssues    []Issue
	StructIssues  []Issue
	ScanIssues    []Issue
	NestingIssues []Issue
	SimulationErr error
	SimulationOK  bool
	Equivalence   error
}

// GenerateReport lints p, runs it and checks that the optimizer preserves
// its behavior on the given input.
func GenerateReport(p program.Program, input string, maxSimSteps uint64) *VerificationReport {
	report := &VerificationReport{Program: p}

	report.Optimized, report.Rewrites = optimizer.OptimizeWithStats(p)
	report.LintIssues = RunLint(p)

	for _, issue := range report.LintIssues {
		switch issue.Type {
		case IssueStruct:
			report.StructIssues = append(report.StructIssues, issue)
		case IssueScan:
			report.ScanIssues = append(report.ScanIssues, issue)
		default:
			report.NestingIssues = append(report.NestingIssues, issue)
		}
	}

	if len(report.StructIssues) > 0 {
		report.SimulationErr = errors.New("skipped, the program is malformed")
		report.Equivalence = report.SimulationErr

		return report
	}

	fs := NewFunctionalSimulator(p, input)
	report.SimulationErr = fs.Run(maxSimSteps)
	report.SimulationOK = report.SimulationErr == nil
	report.Equivalence = CheckEquivalence(p, input, maxSimSteps)

	return report
}

// OK reports whether nothing was found that makes the program fail or
// behave differently when optimized.
func (r *VerificationReport) OK() bool {
	return len(r.StructIssues) == 0 && len(r.ScanIssues) == 0 &&
		r.SimulationOK && r.Equivalence == nil
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Instructions: %d, after optimization: %d (%d rewrites)\n",
		len(r.Program), len(r.Optimized), r.Rewrites.Total())

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		t := table.NewWriter()
		t.SetTitle(fmt.Sprintf("%d lint issues", len(r.LintIssues)))
		t.AppendHeader(table.Row{"Type", "At", "Message"})
		for _, issue := range r.LintIssues {
			t.AppendRow(table.Row{issue.Type, issue.Location(r.Program), issue.Message})
		}
		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: FUNCTIONAL SIMULATION")
	fmt.Fprintln(w, separator)

	if r.SimulationOK {
		fmt.Fprintln(w, "Simulation completed successfully")
	} else {
		fmt.Fprintf(w, "Simulation error: %v\n", r.SimulationErr)
	}

	switch {
	case r.Equivalence == nil:
		fmt.Fprintln(w, "Optimized program behaves the same")
	case errors.Is(r.Equivalence, ErrInconclusive):
		fmt.Fprintf(w, "Optimizer check %v\n", r.Equivalence)
	default:
		fmt.Fprintf(w, "Optimizer check failed: %v\n", r.Equivalence)
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d SCAN, %d NESTING)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.ScanIssues), len(r.NestingIssues))

	status := "PASS"
	if !r.OK() {
		status = "FAIL"
	}
	fmt.Fprintf(w, "Result: %s\n", status)
}
