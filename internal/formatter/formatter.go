// Package formatter renders result relations as text grids, markdown tables
// or JSON documents.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"raDB/internal/ra"
)

// Formatter writes one relation per call.
type Formatter interface {
	Format(rel *ra.Relation) error
}

// Options tune the text-based formatters.
type Options struct {
	Color    bool // colored relation name and header cells
	EchoRows bool // also print "name = [rows]" before the table
}

// New returns the formatter registered under name ("text", "markdown" or
// "json").
func New(name string, w io.Writer, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text", "grid":
		return &gridFormatter{w: w, opts: opts}, nil
	case "markdown", "md":
		return &markdownFormatter{w: w, opts: opts}, nil
	case "json":
		return &jsonFormatter{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}

// EchoRows renders the rows as attribute maps, e.g.
// [{'EID': 'E1', 'Age': 32}, {'EID': 'E2', 'Age': 28}].
func EchoRows(rel *ra.Relation) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range rel.Rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('{')
		for j, col := range rel.Columns {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString("'" + col.Name + "': ")
			if row[j].Type == ra.TypeInt {
				b.WriteString(row[j].Text())
			} else {
				b.WriteString("'" + row[j].S + "'")
			}
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

// numericColumns reports, per column, whether every value is an integer.
// Such columns are right-aligned.
func numericColumns(rel *ra.Relation) []bool {
	out := make([]bool, len(rel.Columns))
	if len(rel.Rows) == 0 {
		return out
	}
	for j := range rel.Columns {
		out[j] = true
		for _, row := range rel.Rows {
			if row[j].Type != ra.TypeInt {
				out[j] = false
				break
			}
		}
	}
	return out
}
