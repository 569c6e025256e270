package engine

import (
	"strings"

	"raDB/internal/logger"
	"raDB/internal/ra"
)

// collisionSuffix marks a right-hand attribute renamed by the cartesian product.
const collisionSuffix = "_2"

// operandResolver reads one side of a condition from rows of a fixed schema.
type operandResolver struct {
	idx     int // column position, or -1 for a constant
	literal ra.Value
	found   bool
}

// newResolver binds an operand to rel's schema:
//   - literals are constants
//   - Relation.attr looks up attr, then attr_2
//   - a bare attr is looked up directly; on the right-hand side an unknown
//     bare name is read as a string literal
func newResolver(rel *ra.Relation, op ra.Operand, rightSide bool) operandResolver {
	switch op.Kind {
	case ra.OperandLiteral:
		return operandResolver{idx: -1, literal: op.Literal, found: true}

	case ra.OperandQualified:
		if i, ok := rel.Index(op.Attribute); ok {
			return operandResolver{idx: i, found: true}
		}
		if i, ok := rel.Index(op.Attribute + collisionSuffix); ok {
			return operandResolver{idx: i, found: true}
		}
		return operandResolver{idx: -1}

	default:
		if i, ok := rel.Index(op.Attribute); ok {
			return operandResolver{idx: i, found: true}
		}
		if rightSide {
			return operandResolver{idx: -1, literal: op.Literal, found: true}
		}
		return operandResolver{idx: -1}
	}
}

func (r operandResolver) value(row ra.Row) ra.Value {
	if r.idx < 0 {
		return r.literal
	}
	return row[r.idx]
}

// selectRows returns the rows of rel that satisfy cond.
//
// A condition naming an attribute the relation does not have is not an
// error: no row matches and a warning lists the available attributes.
func selectRows(rel *ra.Relation, cond *ra.Condition, log *logger.Logger) []ra.Row {
	if len(rel.Rows) == 0 {
		return nil
	}

	left := newResolver(rel, cond.Left, false)
	right := newResolver(rel, cond.Right, true)

	if !left.found {
		log.Warn("attribute not found",
			"attribute", cond.Left.Attribute,
			"relation", rel.Name,
			"available", rel.Attributes())
		return nil
	}
	if !right.found {
		log.Debug("right-hand attribute not found, no rows match",
			"attribute", cond.Right.Attribute,
			"relation", rel.Name)
		return nil
	}

	var out []ra.Row
	for _, row := range rel.Rows {
		if compareValues(left.value(row), cond.Op, right.value(row)) {
			out = append(out, row)
		}
	}
	return out
}

// compareValues applies op. If the left value is integer-like the comparison
// is numeric and the right value must be integer-like too; otherwise both
// sides compare as strings.
func compareValues(l ra.Value, op ra.CompareOp, r ra.Value) bool {
	if li, ok := l.Int(); ok {
		ri, ok := r.Int()
		if !ok {
			return false
		}
		return holds(cmpInt(li, ri), op)
	}
	return holds(strings.Compare(l.Text(), r.Text()), op)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func holds(c int, op ra.CompareOp) bool {
	switch op {
	case ra.OpEq:
		return c == 0
	case ra.OpLt:
		return c < 0
	case ra.OpGt:
		return c > 0
	case ra.OpLe:
		return c <= 0
	case ra.OpGe:
		return c >= 0
	default:
		return false
	}
}

// projectColumns returns only the requested attributes (in that order).
// The result keeps the child's name; duplicate rows are kept.
func projectColumns(rel *ra.Relation, attrs []string) (*ra.Relation, error) {
	indexes := make([]int, len(attrs))
	var missing []string
	for i, name := range attrs {
		idx, ok := rel.Index(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		indexes[i] = idx
	}
	if len(missing) > 0 {
		return nil, &ProjectionError{Missing: missing, Available: rel.Attributes()}
	}

	outCols := make([]ra.Column, len(indexes))
	for i, idx := range indexes {
		outCols[i] = rel.Columns[idx]
	}

	outRows := make([]ra.Row, 0, len(rel.Rows))
	for _, r := range rel.Rows {
		proj := make(ra.Row, len(indexes))
		for i, idx := range indexes {
			proj[i] = r[idx]
		}
		outRows = append(outRows, proj)
	}

	return ra.NewRelation(rel.Name, outCols, outRows), nil
}
