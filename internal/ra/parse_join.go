package ra

import (
	"regexp"
	"strings"
)

var onKeyword = regexp.MustCompile(`(?i)\s+on\s+`)

// parseJoin parses the part after JOIN:
//
//	Employees, Departments
//	Employees, Departments on Employees.DeptID = Departments.DID
func parseJoin(rest string) (Expr, error) {
	namesPart := rest
	condPart := ""
	if loc := onKeyword.FindStringIndex(rest); loc != nil {
		namesPart = rest[:loc[0]]
		condPart = strings.TrimSpace(rest[loc[1]:])
		if condPart == "" {
			return nil, malformed("JOIN: empty condition after ON")
		}
	}

	names := splitCommaSeparated(namesPart)
	if len(names) != 2 {
		return nil, malformed("JOIN: expected two relation names, got %q", strings.TrimSpace(namesPart))
	}
	for _, n := range names {
		if !isIdentifier(n) {
			return nil, malformed("JOIN: invalid relation name %q", n)
		}
	}

	join := &JoinExpr{Left: names[0], Right: names[1]}
	if condPart != "" {
		cond, err := ParseCondition(condPart)
		if err != nil {
			return nil, err
		}
		join.Cond = cond
	}
	return join, nil
}
