package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

func newTable(w io.Writer, headers ...any) table.Table {
	headerFmt := color.New(color.Bold, color.Underline).SprintfFunc()
	firstColumnFmt := color.New(color.FgCyan).SprintfFunc()

	return table.New(headers...).
		WithWriter(w).
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(firstColumnFmt).
		WithPadding(2)
}
