package ra

import (
	"fmt"
	"strings"
)

// Expr is the common interface for all nodes of a relational-algebra
// expression tree.
type Expr interface {
	exprNode()
	String() string
}

// RelationRef is a leaf naming a stored relation.
type RelationRef struct {
	Name string
}

// SelectExpr filters the rows of Input by Cond.
type SelectExpr struct {
	Input Expr
	Cond  *Condition
}

// ProjectExpr keeps only Attributes (in that order) of Input.
type ProjectExpr struct {
	Input      Expr
	Attributes []string
}

// JoinExpr joins two stored relations by name. Cond is nil for a plain
// natural join / cartesian product.
type JoinExpr struct {
	Left  string
	Right string
	Cond  *Condition
}

// SetOp identifies one of the three set operations.
type SetOp int

const (
	OpUnion SetOp = iota
	OpIntersection
	OpDifference
)

func (op SetOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	default:
		return fmt.Sprintf("SetOp(%d)", int(op))
	}
}

// SetExpr applies a set operation to two stored relations by name.
type SetExpr struct {
	Op    SetOp
	Left  string
	Right string
}

func (*RelationRef) exprNode() {}
func (*SelectExpr) exprNode()  {}
func (*ProjectExpr) exprNode() {}
func (*JoinExpr) exprNode()    {}
func (*SetExpr) exprNode()     {}

func (e *RelationRef) String() string { return e.Name }

func (e *SelectExpr) String() string {
	return fmt.Sprintf("select %s (%s)", e.Cond, e.Input)
}

func (e *ProjectExpr) String() string {
	return fmt.Sprintf("project %s (%s)", strings.Join(e.Attributes, ", "), e.Input)
}

func (e *JoinExpr) String() string {
	s := fmt.Sprintf("join %s, %s", e.Left, e.Right)
	if e.Cond != nil {
		s += " on " + e.Cond.String()
	}
	return s
}

func (e *SetExpr) String() string {
	return fmt.Sprintf("%s %s, %s", e.Op, e.Left, e.Right)
}
