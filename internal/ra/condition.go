package ra

import (
	"strconv"
	"strings"
)

// CompareOp is a comparison operator allowed in a condition.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpLt CompareOp = "<"
	OpGt CompareOp = ">"
	OpLe CompareOp = "<="
	OpGe CompareOp = ">="
)

// OperandKind says how one side of a condition is resolved against a row.
type OperandKind int

const (
	// OperandAttribute is a bare attribute name, e.g. Age.
	OperandAttribute OperandKind = iota
	// OperandQualified is Relation.attr; only attr is used for lookup.
	OperandQualified
	// OperandLiteral is a quoted string or an integer.
	OperandLiteral
)

// Operand is one side of a condition.
//
// For a bare right-hand operand Literal also holds the token as a string:
// it is used when the row has no attribute of that name.
type Operand struct {
	Kind      OperandKind
	Relation  string
	Attribute string
	Literal   Value
	Raw       string
}

// Condition is "<lhs> <op> <rhs>".
type Condition struct {
	Left  Operand
	Op    CompareOp
	Right Operand
	Raw   string
}

func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	return c.Left.Raw + " " + string(c.Op) + " " + c.Right.Raw
}

// ParseCondition parses a selection or join condition.
// Two-character operators win over their one-character prefixes.
func ParseCondition(s string) (*Condition, error) {
	raw := strings.TrimSpace(s)
	pos, op := findOperator(raw)
	if pos < 0 {
		return nil, malformed("condition %q has no comparison operator", raw)
	}

	lhs := strings.TrimSpace(raw[:pos])
	rhs := strings.TrimSpace(raw[pos+len(op):])
	if lhs == "" || rhs == "" {
		return nil, malformed("condition %q is missing an operand", raw)
	}
	if strings.ContainsAny(rhs[:1], "<>=") {
		return nil, malformed("condition %q has an unsupported operator", raw)
	}

	left, err := parseOperand(lhs, false)
	if err != nil {
		return nil, err
	}
	right, err := parseOperand(rhs, true)
	if err != nil {
		return nil, err
	}

	return &Condition{Left: left, Op: op, Right: right, Raw: raw}, nil
}

// findOperator returns the position of the first comparison operator
// outside quotes.
func findOperator(s string) (int, CompareOp) {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
		case '>', '<':
			if i+1 < len(s) && s[i+1] == '=' {
				return i, CompareOp(s[i : i+2])
			}
			return i, CompareOp(s[i : i+1])
		case '=':
			return i, OpEq
		}
	}
	return -1, ""
}

func parseOperand(tok string, rightSide bool) (Operand, error) {
	if s, ok := unquote(tok); ok {
		return Operand{Kind: OperandLiteral, Literal: StringValue(s), Raw: tok}, nil
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Operand{Kind: OperandLiteral, Literal: IntValue(i), Raw: tok}, nil
	}

	if rel, attr, ok := strings.Cut(tok, "."); ok {
		rel, attr = strings.TrimSpace(rel), strings.TrimSpace(attr)
		if rel == "" || attr == "" {
			return Operand{}, malformed("invalid qualified attribute %q", tok)
		}
		return Operand{Kind: OperandQualified, Relation: rel, Attribute: attr, Raw: tok}, nil
	}

	op := Operand{Kind: OperandAttribute, Attribute: tok, Raw: tok}
	if rightSide {
		op.Literal = StringValue(tok)
	}
	return op, nil
}
