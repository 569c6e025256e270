package ra

import (
	"fmt"
	"strconv"
)

// DataType represents the logical type of a value in a relation.
type DataType int

const (
	TypeInt DataType = iota
	TypeString
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeString:
		return "STRING"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Value represents a single cell in a relation (one attribute in one row).
// Only the field matching Type should be read.
type Value struct {
	Type DataType

	I64 int64  // for TypeInt
	S   string // for TypeString
}

// IntValue and StringValue build values of the two supported kinds.
func IntValue(i int64) Value { return Value{Type: TypeInt, I64: i} }

func StringValue(s string) Value { return Value{Type: TypeString, S: s} }

// Text returns the value as it would be written unquoted.
func (v Value) Text() string {
	if v.Type == TypeInt {
		return strconv.FormatInt(v.I64, 10)
	}
	return v.S
}

func (v Value) String() string { return v.Text() }

// Int reports the value as an integer if it is one, or if its text parses as one.
func (v Value) Int() (int64, bool) {
	if v.Type == TypeInt {
		return v.I64, true
	}
	i, err := strconv.ParseInt(v.S, 10, 64)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Equal is exact equality: same kind and same payload, no coercion.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	if v.Type == TypeInt {
		return v.I64 == o.I64
	}
	return v.S == o.S
}

// ParseValue turns a raw token into a Value:
//   - 'x' or "x"  -> string x
//   - 42          -> int 42
//   - anything else is kept as a string as written
func ParseValue(tok string) Value {
	if s, ok := unquote(tok); ok {
		return StringValue(s)
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return IntValue(i)
	}
	return StringValue(tok)
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// Row represents one tuple of a relation: one Value per column, in column order.
type Row []Value

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Column describes one attribute of a relation.
// Origin names the base relation the column was read from; it is carried
// through joins for display and never used for lookups.
type Column struct {
	Name   string
	Origin string
}
