package ra

import (
	"fmt"
)

// Relation is a named collection of rows sharing one ordered attribute list.
// Rows are positional: row[i] belongs to Columns[i].
type Relation struct {
	Name    string
	Columns []Column
	Rows    []Row

	index map[string]int // attribute name -> column position
}

// NewRelation builds a relation and its name lookup table.
// It does not copy cols or rows.
func NewRelation(name string, cols []Column, rows []Row) *Relation {
	r := &Relation{Name: name, Columns: cols, Rows: rows}
	r.index = make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := r.index[c.Name]; !dup {
			r.index[c.Name] = i
		}
	}
	return r
}

// ColumnsOf builds a column list whose origin is the given relation.
func ColumnsOf(origin string, names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n, Origin: origin}
	}
	return cols
}

// Attributes returns the attribute names in declaration order.
func (r *Relation) Attributes() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of attr in the relation.
func (r *Relation) Index(attr string) (int, bool) {
	if r.index != nil {
		i, ok := r.index[attr]
		return i, ok
	}
	for i, c := range r.Columns {
		if c.Name == attr {
			return i, true
		}
	}
	return -1, false
}

// Has reports whether attr is part of the schema.
func (r *Relation) Has(attr string) bool {
	_, ok := r.Index(attr)
	return ok
}

// Value returns the value of attr in row.
func (r *Relation) Value(row Row, attr string) (Value, bool) {
	i, ok := r.Index(attr)
	if !ok || i >= len(row) {
		return Value{}, false
	}
	return row[i], true
}

// Clone deep-copies the relation so the copy shares no rows with r.
func (r *Relation) Clone() *Relation {
	cols := make([]Column, len(r.Columns))
	copy(cols, r.Columns)
	rows := make([]Row, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.Clone()
	}
	return NewRelation(r.Name, cols, rows)
}

// Validate checks the relation invariants: a name, unique attribute names
// and exactly one value per attribute in every row.
func (r *Relation) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("relation has no name")
	}
	seen := make(map[string]bool, len(r.Columns))
	for _, c := range r.Columns {
		if c.Name == "" {
			return fmt.Errorf("relation %s: empty attribute name", r.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("relation %s: duplicate attribute %q", r.Name, c.Name)
		}
		seen[c.Name] = true
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return fmt.Errorf("relation %s: row %d has %d values, expected %d",
				r.Name, i+1, len(row), len(r.Columns))
		}
	}
	return nil
}
