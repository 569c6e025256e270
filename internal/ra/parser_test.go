package ra

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_RelationName(t *testing.T) {
	expr, err := Parse("  Employees  ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ref, ok := expr.(*RelationRef)
	if !ok {
		t.Fatalf("expected *RelationRef, got %T", expr)
	}
	if ref.Name != "Employees" {
		t.Fatalf("expected name %q, got %q", "Employees", ref.Name)
	}
}

func TestParse_JoinWithCondition(t *testing.T) {
	query := "join Employees, Departments on Employees.DeptID = Departments.DID"

	expr, err := Parse(query)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	j, ok := expr.(*JoinExpr)
	if !ok {
		t.Fatalf("expected *JoinExpr, got %T", expr)
	}
	if j.Left != "Employees" || j.Right != "Departments" {
		t.Fatalf("unexpected operands: %q, %q", j.Left, j.Right)
	}
	if j.Cond == nil {
		t.Fatalf("expected a condition")
	}
	if j.Cond.Left.Kind != OperandQualified || j.Cond.Left.Relation != "Employees" || j.Cond.Left.Attribute != "DeptID" {
		t.Fatalf("unexpected left operand: %+v", j.Cond.Left)
	}
	if j.Cond.Op != OpEq {
		t.Fatalf("expected =, got %q", j.Cond.Op)
	}
	if j.Cond.Right.Kind != OperandQualified || j.Cond.Right.Attribute != "DID" {
		t.Fatalf("unexpected right operand: %+v", j.Cond.Right)
	}
}

func TestParse_JoinCaseAndSpaces(t *testing.T) {
	expr, err := Parse("  JOIN   A ,B   ON   x >= 3 ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	j, ok := expr.(*JoinExpr)
	if !ok {
		t.Fatalf("expected *JoinExpr, got %T", expr)
	}
	if j.Left != "A" || j.Right != "B" {
		t.Fatalf("unexpected operands: %q, %q", j.Left, j.Right)
	}
	if j.Cond == nil || j.Cond.Op != OpGe {
		t.Fatalf("expected >= condition, got %+v", j.Cond)
	}
}

func TestParse_NaturalJoin(t *testing.T) {
	expr, err := Parse("join Students, Enrollments")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	j, ok := expr.(*JoinExpr)
	if !ok {
		t.Fatalf("expected *JoinExpr, got %T", expr)
	}
	if j.Cond != nil {
		t.Fatalf("expected no condition, got %v", j.Cond)
	}
}

func TestParse_SetOperations(t *testing.T) {
	tests := []struct {
		query string
		op    SetOp
	}{
		{"union A, B", OpUnion},
		{"Intersection A,B", OpIntersection},
		{"DIFFERENCE   A ,   B", OpDifference},
	}

	for _, tt := range tests {
		expr, err := Parse(tt.query)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tt.query, err)
		}
		s, ok := expr.(*SetExpr)
		if !ok {
			t.Fatalf("%q: expected *SetExpr, got %T", tt.query, expr)
		}
		if s.Op != tt.op || s.Left != "A" || s.Right != "B" {
			t.Fatalf("%q: unexpected result %+v", tt.query, s)
		}
	}
}

func TestParse_SetOperationWrongArity(t *testing.T) {
	for _, q := range []string{"union A", "intersection A, B, C", "difference A,"} {
		_, err := Parse(q)
		if !errors.Is(err, ErrMalformedSetOperation) {
			t.Fatalf("Parse(%q): expected ErrMalformedSetOperation, got %v", q, err)
		}
	}
}

func TestParse_SelectBasic(t *testing.T) {
	expr, err := Parse("select Age > 30 (Employees)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sel, ok := expr.(*SelectExpr)
	if !ok {
		t.Fatalf("expected *SelectExpr, got %T", expr)
	}
	if sel.Cond.Left.Kind != OperandAttribute || sel.Cond.Left.Attribute != "Age" {
		t.Fatalf("unexpected left operand: %+v", sel.Cond.Left)
	}
	if sel.Cond.Op != OpGt {
		t.Fatalf("expected >, got %q", sel.Cond.Op)
	}
	if sel.Cond.Right.Kind != OperandLiteral || !sel.Cond.Right.Literal.Equal(IntValue(30)) {
		t.Fatalf("unexpected right operand: %+v", sel.Cond.Right)
	}
	ref, ok := sel.Input.(*RelationRef)
	if !ok || ref.Name != "Employees" {
		t.Fatalf("unexpected input: %v", sel.Input)
	}
}

func TestParse_ProjectAttributesTrimmed(t *testing.T) {
	expr, err := Parse("project  Name ,  Age(Employees)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	p, ok := expr.(*ProjectExpr)
	if !ok {
		t.Fatalf("expected *ProjectExpr, got %T", expr)
	}
	if !reflect.DeepEqual(p.Attributes, []string{"Name", "Age"}) {
		t.Fatalf("unexpected attributes: %v", p.Attributes)
	}
}

func TestParse_NestedSelectProject(t *testing.T) {
	expr, err := Parse("select Age >= 30 (project Name, Age (Employees))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	sel, ok := expr.(*SelectExpr)
	if !ok {
		t.Fatalf("expected *SelectExpr, got %T", expr)
	}
	p, ok := sel.Input.(*ProjectExpr)
	if !ok {
		t.Fatalf("expected nested *ProjectExpr, got %T", sel.Input)
	}
	if ref, ok := p.Input.(*RelationRef); !ok || ref.Name != "Employees" {
		t.Fatalf("unexpected innermost input: %v", p.Input)
	}

	if got, want := expr.String(), "select Age >= 30 (project Name, Age (Employees))"; got != want {
		t.Fatalf("String(): expected %q, got %q", want, got)
	}
}

func TestParse_ParenthesesInsideQuotes(t *testing.T) {
	expr, err := Parse("project A (select B = 'x(' (R))")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	p, ok := expr.(*ProjectExpr)
	if !ok {
		t.Fatalf("expected *ProjectExpr, got %T", expr)
	}
	sel, ok := p.Input.(*SelectExpr)
	if !ok {
		t.Fatalf("expected nested *SelectExpr, got %T", p.Input)
	}
	if !sel.Cond.Right.Literal.Equal(StringValue("x(")) {
		t.Fatalf("unexpected literal %+v", sel.Cond.Right.Literal)
	}

	expr, err = Parse(`select N = ")" (R)`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ref, ok := expr.(*SelectExpr).Input.(*RelationRef); !ok || ref.Name != "R" {
		t.Fatalf("unexpected input %v", expr.(*SelectExpr).Input)
	}
}

func TestParse_SelectOverJoin(t *testing.T) {
	expr, err := Parse("select Salary > 100 (join A, B)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sel := expr.(*SelectExpr)
	if _, ok := sel.Input.(*JoinExpr); !ok {
		t.Fatalf("expected *JoinExpr input, got %T", sel.Input)
	}
}

func TestParse_KeywordPrefixIsRelationName(t *testing.T) {
	expr, err := Parse("joined")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ref, ok := expr.(*RelationRef); !ok || ref.Name != "joined" {
		t.Fatalf("expected relation ref %q, got %v", "joined", expr)
	}
}

func TestParse_Malformed(t *testing.T) {
	queries := []string{
		"",
		"select Age > 30",
		"select (Employees)",
		"select Age (Employees)",
		"project Name,,Age (Employees)",
		"project Name, Name (Employees)",
		"project Name ()",
		"join Employees",
		"join A, B, C",
		"join A, B on",
		"Employees Departments",
		"select Age > 30 (Employees",
		"select Name = 'x) (Employees)",
		"select A > 1 (R)) (S)",
	}

	for _, q := range queries {
		_, err := Parse(q)
		if !errors.Is(err, ErrMalformedQuery) {
			t.Fatalf("Parse(%q): expected ErrMalformedQuery, got %v", q, err)
		}
	}
}
