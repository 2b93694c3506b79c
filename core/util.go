package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/asciiascii/program"
)

// LevelTrace is below Debug and logs every executed instruction.
const LevelTrace slog.Level = slog.LevelDebug - 4

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func traceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

// PrintState renders the registers of the run, every bank that differs from
// a fresh one, and the active loops.
func PrintState(w io.Writer, state *coreState) {
	execTable := table.NewWriter()
	execTable.SetTitle("Execution")
	execTable.AppendHeader(table.Row{"IP", "Steps", "Source", "Other", "Halted"})
	execTable.AppendRow(table.Row{
		state.IP, state.Steps, state.SourceID, state.OtherID, state.Halted,
	})
	fmt.Fprintln(w, execTable.Render())
	fmt.Fprintln(w)

	if state.Banks != nil {
		bankTable := table.NewWriter()
		bankTable.SetTitle(fmt.Sprintf("Banks (%d)", state.Banks.Len()))
		bankTable.AppendHeader(table.Row{"Bank", "Modified cells"})

		for _, id := range state.Banks.IDs() {
			b, _ := state.Banks.Lookup(id)

			cells := make([]string, 0)
			for _, v := range b.Modified() {
				cells = append(cells, fmt.Sprintf("%s=%d", program.VarName(v), b[v]))
			}

			bankTable.AppendRow(table.Row{id, strings.Join(cells, " ")})
		}

		fmt.Fprintln(w, bankTable.Render())
		fmt.Fprintln(w)
	}

	loopTable := table.NewWriter()
	loopTable.SetTitle("Active loops")
	loopTable.AppendHeader(table.Row{"Var", "Entry", "Initial", "Value"})

	for v := range state.Loops {
		l := &state.Loops[v]
		if !l.Active {
			continue
		}

		loopTable.AppendRow(table.Row{program.VarName(byte(v)), l.Entry, l.Initial, l.Bank[v]})
	}

	fmt.Fprintln(w, loopTable.Render())
}
