package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable writes rows under header as a light box table followed by a
// row count.
func renderTable(w io.Writer, header table.Row, rows []table.Row, noun string) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintf(w, "(0 %s)\n", noun)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	for _, row := range rows {
		t.AppendRow(row)
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: len(header), WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d %s)\n", len(rows), noun)
}
