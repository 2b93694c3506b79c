package program

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render formats the program as a table, one row per instruction.
func (p Program) Render(title string) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s (%d instructions)", title, len(p)))
	t.AppendHeader(table.Row{"#", "Op", "A", "B"})

	for i, inst := range p {
		row := table.Row{i, inst.Op.String(), "", ""}
		if inst.Op.Operands() >= 1 {
			row[2] = VarName(inst.A)
		}
		if inst.Op.Operands() == 2 {
			row[3] = VarName(inst.B)
		}
		t.AppendRow(row)
	}

	return t.Render()
}

// Print writes the rendered listing to w.
func (p Program) Print(w io.Writer, title string) {
	fmt.Fprintln(w, p.Render(title))
	fmt.Fprintln(w)
}
