package formatter

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"

	"raDB/internal/ra"
)

type markdownFormatter struct {
	w    io.Writer
	opts Options
}

func (f *markdownFormatter) Format(rel *ra.Relation) error {
	bw := bufio.NewWriter(f.w)

	heading := "### " + rel.Name
	if f.opts.Color {
		heading = color.New(color.FgBlue, color.Bold).Sprint(heading)
	}
	bw.WriteString(heading + "\n\n")

	if f.opts.EchoRows {
		bw.WriteString("`" + rel.Name + " = " + EchoRows(rel) + "`\n\n")
	}

	right := numericColumns(rel)
	header := make([]string, len(rel.Columns))
	align := make([]string, len(rel.Columns))
	for i, c := range rel.Columns {
		header[i] = escapeCell(c.Name)
		if right[i] {
			align[i] = "---:"
		} else {
			align[i] = "---"
		}
	}
	bw.WriteString("| " + strings.Join(header, " | ") + " |\n")
	bw.WriteString("| " + strings.Join(align, " | ") + " |\n")

	for _, row := range rel.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = escapeCell(v.Text())
		}
		bw.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	bw.WriteString("\n")
	return bw.Flush()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
