package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"raDB/internal/ra"
)

// BlockKind distinguishes relation definitions from queries in a script.
type BlockKind int

const (
	BlockRelations BlockKind = iota
	BlockQuery
)

func (k BlockKind) String() string {
	if k == BlockQuery {
		return "query"
	}
	return "relations"
}

// Block is one unit of a script: either a run of relation-definition lines
// or a single query.
type Block struct {
	Kind  BlockKind
	Line  int    // 1-based first line in the source, 0 when not from text
	Query string // BlockQuery: label and comment removed
	Text  string // BlockRelations: definition text without comment lines

	// pre-parsed relations (YAML)
	parsed bool
	rels   []*ra.Relation
	err    error
}

// Relations parses the relations defined by a BlockRelations block. Like
// ParseRelations it may return valid relations together with an error.
func (b Block) Relations() ([]*ra.Relation, error) {
	if b.parsed {
		return b.rels, b.err
	}
	return ParseRelations(b.Text)
}

const queryLabel = "query:"

// SplitScript splits a script into blocks. Every line starting with
// "Query:" is a query block of its own; the runs of other lines between
// them are relation blocks, with blank and '#' comment lines dropped.
func SplitScript(text string) []Block {
	var (
		blocks []Block
		buf    []string
		start  int
	)

	flush := func() {
		if len(buf) > 0 {
			blocks = append(blocks, Block{Kind: BlockRelations, Line: start, Text: strings.Join(buf, "\n")})
		}
		buf = nil
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if len(line) >= len(queryLabel) && strings.EqualFold(line[:len(queryLabel)], queryLabel) {
			flush()
			q := StripComment(strings.TrimSpace(line[len(queryLabel):]))
			if q != "" {
				blocks = append(blocks, Block{Kind: BlockQuery, Line: i + 1, Query: q})
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(buf) == 0 {
			start = i + 1
		}
		buf = append(buf, line)
	}
	flush()

	return blocks
}

// StripComment removes a trailing '#' comment that is not inside quotes.
func StripComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			return strings.TrimSpace(line[:i])
		}
	}
	return strings.TrimSpace(line)
}

// LoadFile reads a script from disk. Files ending in .yaml or .yml are
// read as YAML, everything else as relation/query text.
func LoadFile(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		blocks, err := LoadYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return blocks, nil
	default:
		return SplitScript(string(data)), nil
	}
}
