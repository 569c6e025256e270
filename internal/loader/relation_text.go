// Package loader turns relation definitions and query scripts into
// relations and query blocks for the engine.
package loader

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"raDB/internal/ra"
)

// ErrNoRelation is returned when a relation block holds no definition.
var ErrNoRelation = errors.New("no valid relation found in text block")

// relationDef matches
//
//	Employees (EID, Name, Age) = { ... }
//	Employees = { EID, Name, Age
//	              ... }
var relationDef = regexp.MustCompile(`(?s)(\w+)\s*(?:\(([^)]*)\))?\s*=\s*\{(.*?)\}`)

// ParseRelations parses one or more relation definitions. Each row is one
// non-blank line of comma-separated values; quoted values may contain
// commas. When the attribute list is not given in parentheses, the first
// line of the body is the header.
//
// A definition that fails to parse does not discard the others: the valid
// relations are returned together with the joined errors of the bad ones.
func ParseRelations(text string) ([]*ra.Relation, error) {
	matches := relationDef.FindAllStringSubmatch(strings.TrimSpace(text), -1)
	if len(matches) == 0 {
		return nil, ErrNoRelation
	}

	var (
		rels []*ra.Relation
		errs []error
	)
	for _, m := range matches {
		rel, err := parseRelation(m[1], m[2], m[3])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rels = append(rels, rel)
	}
	return rels, errors.Join(errs...)
}

func parseRelation(name, header, body string) (*ra.Relation, error) {
	lines := nonBlankLines(body)

	var attrs []string
	if strings.TrimSpace(header) != "" {
		attrs = splitValues(header)
	} else {
		if len(lines) == 0 {
			return nil, fmt.Errorf("relation %s: missing attribute list", name)
		}
		attrs = splitValues(lines[0])
		lines = lines[1:]
	}
	for _, a := range attrs {
		if a == "" {
			return nil, fmt.Errorf("relation %s: empty attribute name", name)
		}
	}

	rows := make([]ra.Row, 0, len(lines))
	for i, line := range lines {
		vals := splitValues(line)
		if len(vals) != len(attrs) {
			return nil, fmt.Errorf("relation %s: row %d %q has %d values, expected %d",
				name, i+1, line, len(vals), len(attrs))
		}
		row := make(ra.Row, len(vals))
		for j, v := range vals {
			row[j] = ra.ParseValue(v)
		}
		rows = append(rows, row)
	}

	rel := ra.NewRelation(name, ra.ColumnsOf(name, attrs...), rows)
	if err := rel.Validate(); err != nil {
		return nil, err
	}
	return rel, nil
}

func nonBlankLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitValues splits a line on commas outside quotes and trims each value.
// A trailing comma does not produce an empty value.
func splitValues(line string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == ',':
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(out) == 0 {
		out = append(out, last)
	}
	return out
}
