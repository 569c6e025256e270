package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"raDB/internal/ra"
)

// setOperation computes union, intersection or difference of two relations
// with the same attribute set. The result uses the left relation's
// attribute order; right rows are rearranged to match it.
//
// Row identity is the tuple of values taken in sorted attribute-name order,
// so it does not depend on how either relation orders its attributes.
func setOperation(op ra.SetOp, left, right *ra.Relation) (*ra.Relation, error) {
	if !sameAttributeSet(left, right) {
		return nil, fmt.Errorf("%w: %s(%s) and %s(%s) have incompatible schemas",
			ErrSchemaMismatch,
			left.Name, strings.Join(left.Attributes(), ", "),
			right.Name, strings.Join(right.Attributes(), ", "))
	}

	sorted := left.Attributes()
	sort.Strings(sorted)
	leftKey := identity(left, sorted)
	rightKey := identity(right, sorted)

	var rows []ra.Row
	switch op {
	case ra.OpUnion:
		seen := make(map[string]bool, len(left.Rows)+len(right.Rows))
		for _, row := range left.Rows {
			if k := leftKey(row); !seen[k] {
				seen[k] = true
				rows = append(rows, row)
			}
		}
		perm := permutation(left, right)
		for _, row := range right.Rows {
			if k := rightKey(row); !seen[k] {
				seen[k] = true
				rows = append(rows, reorder(row, perm))
			}
		}

	case ra.OpIntersection, ra.OpDifference:
		inRight := make(map[string]bool, len(right.Rows))
		for _, row := range right.Rows {
			inRight[rightKey(row)] = true
		}
		want := op == ra.OpIntersection
		for _, row := range left.Rows {
			if inRight[leftKey(row)] == want {
				rows = append(rows, row)
			}
		}

	default:
		return nil, fmt.Errorf("unsupported set operation %v", op)
	}

	cols := make([]ra.Column, len(left.Columns))
	copy(cols, left.Columns)
	name := op.String() + "_" + left.Name + "_" + right.Name
	return ra.NewRelation(name, cols, rows), nil
}

func sameAttributeSet(a, b *ra.Relation) bool {
	if len(a.Columns) != len(b.Columns) {
		return false
	}
	for _, c := range a.Columns {
		if !b.Has(c.Name) {
			return false
		}
	}
	return true
}

// identity returns a function encoding a row's identity tuple as a map key.
// The type tag keeps int 1 and string "1" distinct.
func identity(rel *ra.Relation, sortedAttrs []string) func(ra.Row) string {
	idx := make([]int, len(sortedAttrs))
	for i, a := range sortedAttrs {
		idx[i], _ = rel.Index(a)
	}
	return func(row ra.Row) string {
		var b strings.Builder
		for _, i := range idx {
			v := row[i]
			if v.Type == ra.TypeInt {
				b.WriteByte('i')
			} else {
				b.WriteByte('s')
			}
			t := v.Text()
			b.WriteString(strconv.Itoa(len(t)))
			b.WriteByte(':')
			b.WriteString(t)
		}
		return b.String()
	}
}

// permutation maps each left column position to the right column holding
// the same attribute.
func permutation(left, right *ra.Relation) []int {
	perm := make([]int, len(left.Columns))
	for i, c := range left.Columns {
		perm[i], _ = right.Index(c.Name)
	}
	return perm
}

func reorder(row ra.Row, perm []int) ra.Row {
	out := make(ra.Row, len(perm))
	for i, j := range perm {
		out[i] = row[j]
	}
	return out
}
