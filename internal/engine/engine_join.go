package engine

import (
	"strings"

	"raDB/internal/logger"
	"raDB/internal/ra"
)

// cartesianProduct pairs every left row with every right row.
//
// The output schema is the left attributes followed by the right ones; a
// right attribute whose name is already taken is stored as name_2. If name_2
// is taken as well, the right value lands in that existing column.
func cartesianProduct(left, right *ra.Relation) *ra.Relation {
	cols := make([]ra.Column, len(left.Columns), len(left.Columns)+len(right.Columns))
	copy(cols, left.Columns)

	pos := make(map[string]int, cap(cols))
	for i, c := range cols {
		pos[c.Name] = i
	}

	rightPos := make([]int, len(right.Columns))
	for j, c := range right.Columns {
		name := c.Name
		if _, taken := pos[name]; taken {
			name += collisionSuffix
		}
		if i, taken := pos[name]; taken {
			rightPos[j] = i
			continue
		}
		pos[name] = len(cols)
		rightPos[j] = len(cols)
		cols = append(cols, ra.Column{Name: name, Origin: c.Origin})
	}

	rows := make([]ra.Row, 0, len(left.Rows)*len(right.Rows))
	for _, l := range left.Rows {
		for _, r := range right.Rows {
			row := make(ra.Row, len(cols))
			copy(row, l)
			for j, v := range r {
				row[rightPos[j]] = v
			}
			rows = append(rows, row)
		}
	}

	return ra.NewRelation(left.Name+"_x_"+right.Name, cols, rows)
}

// commonAttributes lists left attributes that also appear on the right, in left order.
func commonAttributes(left, right *ra.Relation) []string {
	var common []string
	for _, c := range left.Columns {
		if right.Has(c.Name) {
			common = append(common, c.Name)
		}
	}
	return common
}

// joinRelations dispatches on (shared attributes?, condition?):
//
//	no shared, no cond  -> cartesian product
//	no shared, cond     -> cartesian product filtered by cond
//	shared,    no cond  -> natural join
//	shared,    cond     -> natural join, filtered by cond before the _2
//	                       columns are dropped
//
// After a natural join every attribute ending in _2 is dropped, including
// base attributes that already carried the suffix.
func joinRelations(left, right *ra.Relation, cond *ra.Condition, log *logger.Logger) *ra.Relation {
	name := "join_" + left.Name + "_" + right.Name
	p := cartesianProduct(left, right)
	common := commonAttributes(left, right)

	if len(common) == 0 {
		rows := p.Rows
		if cond != nil {
			rows = selectRows(p, cond, log)
		}
		return ra.NewRelation(name, p.Columns, rows)
	}

	matched := ra.NewRelation(p.Name, p.Columns, naturalMatch(p, common))
	if cond != nil {
		matched.Rows = selectRows(matched, cond, log)
	}

	cols, rows := dropSuffixed(matched)
	return ra.NewRelation(name, cols, rows)
}

// naturalMatch keeps product rows where every shared attribute equals its
// _2 counterpart. Equality is exact, no numeric coercion.
func naturalMatch(rel *ra.Relation, common []string) []ra.Row {
	type pair struct{ l, r int }
	pairs := make([]pair, 0, len(common))
	for _, attr := range common {
		l, _ := rel.Index(attr)
		r, ok := rel.Index(attr + collisionSuffix)
		if !ok {
			continue
		}
		pairs = append(pairs, pair{l, r})
	}

	var out []ra.Row
	for _, row := range rel.Rows {
		keep := true
		for _, p := range pairs {
			if !row[p.l].Equal(row[p.r]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

// dropSuffixed removes every column whose name ends in _2.
func dropSuffixed(rel *ra.Relation) ([]ra.Column, []ra.Row) {
	keep := make([]int, 0, len(rel.Columns))
	for i, c := range rel.Columns {
		if !strings.HasSuffix(c.Name, collisionSuffix) {
			keep = append(keep, i)
		}
	}

	cols := make([]ra.Column, len(keep))
	for i, k := range keep {
		cols[i] = rel.Columns[k]
	}

	rows := make([]ra.Row, len(rel.Rows))
	for i, row := range rel.Rows {
		out := make(ra.Row, len(keep))
		for j, k := range keep {
			out[j] = row[k]
		}
		rows[i] = out
	}
	return cols, rows
}
