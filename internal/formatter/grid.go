package formatter

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"raDB/internal/ra"
)

const ruleWidth = 40

type gridFormatter struct {
	w    io.Writer
	opts Options
}

// Format prints
//
//	Employees
//	+-----+------+
//	| EID | Name |
//	+=====+======+
//	| E1  | John |
//	+-----+------+
//
//	========================================
func (f *gridFormatter) Format(rel *ra.Relation) error {
	bw := bufio.NewWriter(f.w)

	title := rel.Name
	header := make([]string, len(rel.Columns))
	for i, c := range rel.Columns {
		header[i] = c.Name
	}

	cells := make([][]string, len(rel.Rows))
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for r, row := range rel.Rows {
		cells[r] = make([]string, len(row))
		for i, v := range row {
			cells[r][i] = v.Text()
			if n := utf8.RuneCountInString(cells[r][i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	right := numericColumns(rel)

	headerColor := color.New(color.FgCyan, color.Bold)
	titleColor := color.New(color.FgBlue, color.Bold)
	if f.opts.Color {
		title = titleColor.Sprint(title)
	}

	if f.opts.EchoRows {
		bw.WriteString(rel.Name + " = " + EchoRows(rel) + "\n")
	}
	bw.WriteString("\n" + title + "\n")

	border := rule(widths, '-')
	bw.WriteString(border)

	bw.WriteString("|")
	for i, h := range header {
		cell := pad(h, widths[i], false)
		if f.opts.Color {
			cell = headerColor.Sprint(cell)
		}
		bw.WriteString(" " + cell + " |")
	}
	bw.WriteString("\n")
	bw.WriteString(rule(widths, '='))

	for _, row := range cells {
		bw.WriteString("|")
		for i, c := range row {
			bw.WriteString(" " + pad(c, widths[i], right[i]) + " |")
		}
		bw.WriteString("\n")
		bw.WriteString(border)
	}

	bw.WriteString("\n" + strings.Repeat("=", ruleWidth) + "\n\n")
	return bw.Flush()
}

func rule(widths []int, fill byte) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat(string(fill), w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func pad(s string, width int, right bool) string {
	gap := width - utf8.RuneCountInString(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}
