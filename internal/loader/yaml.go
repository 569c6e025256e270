package loader

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"raDB/internal/ra"
)

// yamlFile is the YAML script layout:
//
//	relations:
//	  - name: Employees
//	    attributes: [EID, Name, Age]
//	    rows:
//	      - [E1, John, 32]
//	queries:
//	  - select Age > 30 (Employees)
type yamlFile struct {
	Relations []yamlRelation `yaml:"relations"`
	Queries   []string       `yaml:"queries"`
}

type yamlRelation struct {
	Name       string   `yaml:"name"`
	Attributes []string `yaml:"attributes"`
	Rows       [][]any  `yaml:"rows"`
}

// LoadYAML decodes a YAML script. All relations form one block that comes
// before the queries. Relations with bad rows are reported through the
// block's Relations error; the others stay usable.
func LoadYAML(data []byte) ([]Block, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	var blocks []Block
	if len(f.Relations) > 0 {
		var (
			rels []*ra.Relation
			errs []error
		)
		for _, yr := range f.Relations {
			rel, err := yr.relation()
			if err != nil {
				errs = append(errs, err)
				continue
			}
			rels = append(rels, rel)
		}
		blocks = append(blocks, Block{Kind: BlockRelations, parsed: true, rels: rels, err: errors.Join(errs...)})
	}

	for _, q := range f.Queries {
		if q = StripComment(q); q != "" {
			blocks = append(blocks, Block{Kind: BlockQuery, Query: q})
		}
	}
	return blocks, nil
}

func (yr yamlRelation) relation() (*ra.Relation, error) {
	if yr.Name == "" {
		return nil, fmt.Errorf("relation without name")
	}
	if len(yr.Attributes) == 0 {
		return nil, fmt.Errorf("relation %s: missing attribute list", yr.Name)
	}

	rows := make([]ra.Row, 0, len(yr.Rows))
	for i, yrow := range yr.Rows {
		if len(yrow) != len(yr.Attributes) {
			return nil, fmt.Errorf("relation %s: row %d has %d values, expected %d",
				yr.Name, i+1, len(yrow), len(yr.Attributes))
		}
		row := make(ra.Row, len(yrow))
		for j, v := range yrow {
			row[j] = yamlValue(v)
		}
		rows = append(rows, row)
	}

	rel := ra.NewRelation(yr.Name, ra.ColumnsOf(yr.Name, yr.Attributes...), rows)
	if err := rel.Validate(); err != nil {
		return nil, err
	}
	return rel, nil
}

// yamlValue maps a decoded scalar onto the value model. YAML has already
// resolved quoting, so strings stay strings even when they look numeric.
func yamlValue(v any) ra.Value {
	switch x := v.(type) {
	case int:
		return ra.IntValue(int64(x))
	case int64:
		return ra.IntValue(x)
	case uint64:
		if x > math.MaxInt64 {
			return ra.StringValue(strconv.FormatUint(x, 10))
		}
		return ra.IntValue(int64(x))
	case string:
		return ra.StringValue(x)
	case nil:
		return ra.StringValue("")
	default:
		return ra.StringValue(fmt.Sprint(x))
	}
}
